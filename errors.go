package hpack

import "errors"

// The codec errors below are COMPRESSION_ERRORs: once a Decoder or Encoder
// raises one through its Host, it refuses further use. Two are never raised
// through a Host: ErrPseudoHeaderOrdering is only returned by
// ValidatePseudoHeaders, and ErrCodecErrored only by a codec that has
// already raised.
var (
	// ErrMalformedInteger indicates an integer representation whose
	// continuation octets never terminated within the permitted width, or
	// whose value overflowed 64 bits.
	ErrMalformedInteger = errors.New("hpack: malformed integer representation")

	// ErrMalformedHuffman indicates a Huffman-coded string whose bits don't
	// decode to a valid symbol sequence followed by EOS padding.
	ErrMalformedHuffman = errors.New("hpack: malformed Huffman string")

	// ErrInvalidIndex indicates an indexed-header or literal-indexed-name
	// representation naming an index outside the current combined index
	// space (0, or greater than |D|+|S|).
	ErrInvalidIndex = errors.New("hpack: invalid header table index")

	// ErrUnknownOpcode indicates a representation whose leading bits don't
	// match any opcode in the dispatch table.
	ErrUnknownOpcode = errors.New("hpack: unknown representation opcode")

	// ErrOversizedTableUpdate indicates a dynamic-table-size-update
	// representation naming a capacity above the host's negotiated ceiling.
	ErrOversizedTableUpdate = errors.New("hpack: table size update exceeds host maximum")

	// ErrPseudoHeaderOrdering indicates a header block where a pseudo-header
	// field (name beginning with ':') appears after a regular header field.
	ErrPseudoHeaderOrdering = errors.New("hpack: pseudo-header field after regular header field")

	// ErrCodecErrored indicates a call to Decode or Encode on a codec that
	// has already raised a COMPRESSION_ERROR and is permanently unusable.
	ErrCodecErrored = errors.New("hpack: codec has already raised a compression error")
)
