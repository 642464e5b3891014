// Package sitefs provides file system access and HTML page discovery for the
// static site maintained by cepfix.
package sitefs
