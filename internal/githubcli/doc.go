// Package githubcli wraps the GitHub CLI (gh) for pull request workflows:
// opening a pull request and listing existing ones. Invocations go through
// the shared shell executor so they are logged and testable like git calls.
package githubcli
