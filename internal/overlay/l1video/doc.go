// Package l1video owns Layer 1 (Video) of the overlay decode pipeline.
//
// Responsibilities: holding cropped overlay frames, averaging frame ranges
// into representative frames, extracting glyph-sized regions, and the
// ffmpeg-backed decoder that produces frames from a recording.
// Key types: Frame, Video, Stacked, Decoder.
//
// Dependency rule: L1 may depend on device and glyph, but never on L2+.
//
// Frames are immutable once decoded. Segment detection reads the same
// Video from many places and each representative frame is owned by the
// task decoding its segment.
package l1video
