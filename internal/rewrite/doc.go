// Package rewrite applies ordered regex and literal substitutions to the HTML
// pages of the site.
//
// It exposes Rule implementations for individual substitution steps, Recipe for
// naming an ordered rule list together with the pages it targets, Catalog for
// the built-in and configured recipes, Service for running a recipe against a
// site root, and CommandBuilder for wiring the rewrite Cobra command.
package rewrite
