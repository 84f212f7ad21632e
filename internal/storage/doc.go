// Package storage manages the request-scoped lifetime of uploaded audio
// files. Each pipeline run gets its own temporary directory which is
// guaranteed to be removed when the run finishes, whether it completed,
// failed to decode, or the classifier call blew up.
package storage
