// Package features derives scalar acoustic descriptors from a normalized
// signal: clip duration, average fundamental frequency constrained to the
// human voice range, and average frame RMS energy. Pitch and energy are
// computed inside independent failure boundaries, so one collapsing to the
// undefined sentinel never prevents the other from being reported.
package features
