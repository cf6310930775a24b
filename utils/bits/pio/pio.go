// Package pio provides big-endian fixed-width integer primitives over byte
// slices and over streams.
package pio

// RecommendBufioSize is the buffer size used when wrapping files in bufio.
const RecommendBufioSize = 1024 * 64
