// Package pipeline sequences storage, decoding, feature extraction,
// profile assembly and classifier invocation for one audio clip and
// returns the (status, message, profile) triple. Runs are stateless and
// request-scoped; the temporary file backing a run is removed on every
// exit path. Only a storage failure aborts a run; decode, feature and
// classifier failures all degrade into a well-formed partial result.
package pipeline
