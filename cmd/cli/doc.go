// Package cli constructs the cepfix command-line interface. It wires the Cobra
// command hierarchy to the layered configuration loader and the structured
// logger, and registers the rewrite, inspect, audit, and workflow commands.
package cli
