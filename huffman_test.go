package hpack

import (
	"bytes"
	"testing"

	"github.com/martinthomson/hpack-draft/bitio"
	"github.com/stvp/assert"
)

func huffmanRoundTrip(t *testing.T, s string) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	assert.Nil(t, huffmanEncode(w, s))

	r := bitio.NewReader(&buf)
	got, err := huffmanDecode(r, huffmanEncodedLen(s))
	assert.Nil(t, err)
	assert.Equal(t, s, got)
}

func TestHuffmanRoundTrip(t *testing.T) {
	huffmanRoundTrip(t, "www.example.com")
	huffmanRoundTrip(t, "no-cache")
	huffmanRoundTrip(t, "custom-key")
	huffmanRoundTrip(t, "custom-value")
	huffmanRoundTrip(t, "")
}

func TestHuffmanMalformedEOS(t *testing.T) {
	// A decoded symbol that is itself the EOS code is invalid mid-string.
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	eos := huffmanTable[huffmanEOS]
	assert.Nil(t, w.WriteBits(uint64(eos.code), eos.bits))
	assert.Nil(t, w.PadEOS())

	r := bitio.NewReader(&buf)
	_, err := huffmanDecode(r, buf.Len())
	assert.Equal(t, ErrMalformedHuffman, err)
}
