// Package shared declares the cross-cutting types used by the bundle
// orchestration services: executor and clock abstractions and the project
// configuration consumed by every command.
package shared
