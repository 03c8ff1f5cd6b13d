// Package errors defines the typed errors and sentinel values shared across
// the SDK. Kernel timeouts and kernel-reported execution failures are not
// errors in this taxonomy; they are carried as status values in the
// ExecuteResult so that partial output is retained.
package errors
