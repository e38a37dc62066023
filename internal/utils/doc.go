// Package utils provides shared utility functions.
//
// These utilities are used across multiple packages and include:
//   - Opening URLs in the browser
//   - Parsing git remote URLs into host, owner and repository
//   - Detecting interactive terminals
package utils
