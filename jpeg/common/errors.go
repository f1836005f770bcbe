package common

import "errors"

// Low-level sentinel errors surfaced by the byte/bit reader and the
// Huffman table. Higher layers (jpeg/decoder) translate these into the
// typed public error kinds.
var (
	ErrTruncated     = errors.New("jpeg: truncated data")
	ErrInvalidMarker = errors.New("jpeg: invalid marker")
	ErrHuffmanDecode = errors.New("jpeg: invalid Huffman code")
	ErrRestartMismatch = errors.New("jpeg: restart marker mismatch")
	ErrUnsupportedSubsampling = errors.New("jpeg: unsupported chroma subsampling")
)
