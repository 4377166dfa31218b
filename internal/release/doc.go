// Package release implements the promotion workflows bound to the single
// operate repository: opening the integration-to-master pull request,
// publishing a release onto the operate branch, and propagating hotfixes
// through master and integration in strict order.
package release
