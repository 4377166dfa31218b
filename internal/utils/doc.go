// Package utils provides the configuration loading and logger construction
// shared by every command.
package utils
