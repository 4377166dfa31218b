// Package scaffold materializes new project trees from template directories.
//
// Templates follow the params.<var> convention: a token such as params.app_code
// may appear in folder names, file names, and file contents, and every
// occurrence is replaced with the caller-supplied value for that variable.
// Tokens without a value fail the run rather than leaking into the output.
package scaffold
