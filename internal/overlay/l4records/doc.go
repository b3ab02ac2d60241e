// Package l4records owns Layer 4 (Records) of the overlay decode pipeline.
//
// Responsibilities: classifying each character of a representative frame
// at its predicted offset, assembling the decoded record and its quality,
// and running the whole pipeline over a video with bounded parallelism.
// Key types: Decoder, Decoded, Result, Run, Options.
//
// Dependency rule: L4 may depend on L1, L2 and L3.
package l4records
