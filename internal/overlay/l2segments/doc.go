// Package l2segments owns Layer 2 (Segments) of the overlay decode pipeline.
//
// Responsibilities: calibrating the vertical glyph offset, finding the
// frame ranges during which the overlay text is stable, and averaging each
// range into one representative frame.
// Key types: Segment, Detection.
//
// Dependency rule: L2 may depend on L1 and glyph, but never on L3+.
//
// Stability is judged on the seconds digit alone. It is the fastest
// changing character, so any change of the record changes it too.
package l2segments
