// Package l3fields owns Layer 3 (Fields) of the overlay decode pipeline.
//
// Responsibilities: walking the slot grammar of each overlay value, resolving
// which characters may appear next, predicting where the next character is
// drawn and parsing completed values.
// Key types: Slot, Field, DateTime, Coordinate, Record, EmbeddedData.
//
// Dependency rule: L3 may depend on glyph and device, but never on L4+.
// Fields and records are plain mutable state owned by one decode task.
package l3fields
