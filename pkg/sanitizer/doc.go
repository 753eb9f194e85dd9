// Package sanitizer normalizes free-text input typed at the desk before it is
// compared against reference data. Every function is idempotent.
package sanitizer
