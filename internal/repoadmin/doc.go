// Package repoadmin exposes atomic version-control operations against a
// single bundle repository: checkout, pull, commit, merge, push, tag, branch
// removal, and a read-only stats snapshot.
//
// Every mutating operation shells out to git through the shared executor and
// classifies failures into the sentinel error kinds (branch not found, merge
// conflict, protected branch, dirty worktree, remote unavailable) so callers
// can aggregate outcomes across a bundle.
package repoadmin
