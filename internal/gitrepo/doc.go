// Package gitrepo contains helpers for interpreting Git remote locations.
//
// It exposes RemoteURL parsing used by the release workflows to derive the
// owner/repository slug that the GitHub CLI expects.
package gitrepo
