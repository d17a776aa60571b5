package hpack

import (
	"bytes"
	"testing"

	"github.com/stvp/assert"
)

func TestWriteReadStringHuffman(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.Nil(t, w.WriteString("www.example.com"))

	r := NewReader(&buf)
	s, err := r.ReadString()
	assert.Nil(t, err)
	assert.Equal(t, "www.example.com", s)
}

func TestWriteReadStringRaw(t *testing.T) {
	// A string whose Huffman coding would be longer than raw (short,
	// high-entropy content) must fall back to the raw representation.
	var buf bytes.Buffer
	w := NewWriter(&buf)
	raw := "\x00\x01\x02\x03"
	assert.Nil(t, w.WriteString(raw))

	r := NewReader(&buf)
	s, err := r.ReadString()
	assert.Nil(t, err)
	assert.Equal(t, raw, s)
}

func TestWriteReadStringEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.Nil(t, w.WriteString(""))

	r := NewReader(&buf)
	s, err := r.ReadString()
	assert.Nil(t, err)
	assert.Equal(t, "", s)
}

func TestReadStringTruncated(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.Nil(t, w.WriteString("hello world, this is a longer string"))
	truncated := buf.Bytes()[:len(buf.Bytes())-2]

	r := NewReader(bytes.NewReader(truncated))
	_, err := r.ReadString()
	assert.NotNil(t, err)
}
