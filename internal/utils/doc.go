// Package utils hosts the configuration, logging, and output plumbing shared by
// every cepfix command.
package utils
