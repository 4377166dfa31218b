// Package bundle models the ordered collection of repositories that make up
// one multi-repository project. The declared order is significant: every
// bundle-wide operation visits repositories in bundle order and reports in
// that same order. Bundles are declared inline in the configuration file or
// loaded from a standalone YAML manifest.
package bundle
