// Package lifecycle orchestrates branch workflows across every repository of
// a bundle: starting, refreshing, committing, completing, and removing
// feature branches, plus a read-only status report.
//
// Multi-repository operations run strictly sequentially in bundle order,
// continue past per-repository failures, and return a single aggregate error
// enumerating every failed repository so the caller always sees the full
// blast radius. Successful repositories keep their new state even when a
// later repository fails.
package lifecycle
