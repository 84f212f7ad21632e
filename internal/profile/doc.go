// Package profile defines the acoustic profile record returned for every
// analyzed clip and its assembly from decoder and extractor outputs. The
// profile is always well-formed: total decode failure degrades to the
// empty profile, never to a missing one.
package profile
