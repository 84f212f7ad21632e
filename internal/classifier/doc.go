// Package classifier defines the boundary to the external deepfake
// inference collaborator. The collaborator is opaque: the package depends
// only on the classify(filePath) -> (status, message) contract, exposed
// through a single-method interface so the pipeline can be tested against
// a stub. The Adapter guarantees that collaborator failures degrade to a
// Failure verdict instead of escaping into the pipeline.
package classifier
