// Package inspect provides read-only queries against local Git repositories.
//
// It is built on go-git so that status, branch, and history questions can be
// answered without shelling out, and without mutating the working tree. The
// repository administration layer uses it for its guard checks and for the
// bundle-wide stats report.
package inspect
