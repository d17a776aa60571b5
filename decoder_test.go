package hpack

import (
	"bytes"
	"testing"

	"github.com/stvp/assert"
)

func TestDecodeIndexedStaticInsertsIntoD(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	// Indexed header field, index 2 (":method", "GET").
	assert.Nil(t, w.WriteBit(1))
	assert.Nil(t, w.WriteInt(7, 2))

	d := NewDecoder(newTestHost(4096))
	_, fields, err := d.Decode(buf.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, []HeaderField{{Name: ":method", Value: "GET"}}, fields)
	assert.Equal(t, 1, d.Table().DynamicLen())
}

func TestDecodeIndexedDynamicTogglesReference(t *testing.T) {
	d := NewDecoder(newTestHost(4096))
	e := d.Table().Insert("custom-key", "custom-value")
	assert.True(t, !e.referenced)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.Nil(t, w.WriteBit(1))
	assert.Nil(t, w.WriteInt(7, 1))

	_, fields, err := d.Decode(buf.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, []HeaderField{{Name: "custom-key", Value: "custom-value"}}, fields)
	assert.True(t, e.referenced)

	// Toggling again removes it from R and emits nothing.
	buf.Reset()
	assert.Nil(t, w.WriteBit(1))
	w2 := NewWriter(&buf)
	assert.Nil(t, w2.WriteBit(1))
	assert.Nil(t, w2.WriteInt(7, 1))
	_, fields, err = d.Decode(buf.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, 0, len(fields))
	assert.True(t, !e.referenced)
}

func TestDecodeLiteralIncrementalNewName(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.Nil(t, w.WriteBit(0))
	assert.Nil(t, w.WriteBit(1))
	assert.Nil(t, w.WriteInt(6, 0))
	assert.Nil(t, w.WriteString("custom-key"))
	assert.Nil(t, w.WriteString("custom-value"))

	d := NewDecoder(newTestHost(4096))
	_, fields, err := d.Decode(buf.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, []HeaderField{{Name: "custom-key", Value: "custom-value"}}, fields)
	assert.Equal(t, 1, d.Table().DynamicLen())
}

func TestDecodeLiteralWithoutIndexingDoesNotInsert(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.Nil(t, w.WriteBits(0, 4))
	assert.Nil(t, w.WriteInt(4, 0))
	assert.Nil(t, w.WriteString("x-custom"))
	assert.Nil(t, w.WriteString("val"))

	d := NewDecoder(newTestHost(4096))
	_, fields, err := d.Decode(buf.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, []HeaderField{{Name: "x-custom", Value: "val"}}, fields)
	assert.Equal(t, 0, d.Table().DynamicLen())
}

func TestDecodeLiteralNeverIndexedDoesNotInsert(t *testing.T) {
	// Never-indexed literal, new name: 0001 0000. A compliant encoder here
	// never emits this opcode, but a decoder must still accept it from a
	// peer built from a different encoder.
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.Nil(t, w.WriteBits(0x1, 4))
	assert.Nil(t, w.WriteInt(4, 0))
	assert.Nil(t, w.WriteString("authorization"))
	assert.Nil(t, w.WriteString("secret"))

	d := NewDecoder(newTestHost(4096))
	_, fields, err := d.Decode(buf.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, []HeaderField{{Name: "authorization", Value: "secret"}}, fields)
	assert.Equal(t, 0, d.Table().DynamicLen())
}

func TestDecodeEmptyReferenceSet(t *testing.T) {
	d := NewDecoder(newTestHost(4096))
	e := d.Table().Insert("a", "1")
	e.referenced = true

	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.Nil(t, w.WriteBits(0x3, 4))
	assert.Nil(t, w.WriteBits(0, 4))

	_, _, err := d.Decode(buf.Bytes())
	assert.Nil(t, err)
	assert.True(t, !e.referenced)
}

func TestDecodeTableSizeUpdate(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.Nil(t, w.WriteBits(0x2, 4))
	assert.Nil(t, w.WriteInt(4, 100))

	d := NewDecoder(newTestHost(4096))
	_, _, err := d.Decode(buf.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, 100, d.Table().Capacity())
}

func TestDecodeTableSizeUpdateOverMax(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.Nil(t, w.WriteBits(0x2, 4))
	assert.Nil(t, w.WriteInt(4, 8192))

	host := newTestHost(4096)
	d := NewDecoder(host)
	_, _, err := d.Decode(buf.Bytes())
	assert.Equal(t, ErrOversizedTableUpdate, err)
	assert.Equal(t, 1, len(host.raised))

	// A codec that has raised a compression error refuses further use.
	_, _, err = d.Decode(buf.Bytes())
	assert.Equal(t, ErrCodecErrored, err)
}

func TestDecodeTruncatedRepresentationLeavesStateUnchanged(t *testing.T) {
	var whole bytes.Buffer
	w := NewWriter(&whole)
	assert.Nil(t, w.WriteBit(0))
	assert.Nil(t, w.WriteBit(1))
	assert.Nil(t, w.WriteInt(6, 0))
	assert.Nil(t, w.WriteString("custom-key"))
	assert.Nil(t, w.WriteString("custom-value"))

	full := whole.Bytes()
	truncated := full[:len(full)-1]

	d := NewDecoder(newTestHost(4096))
	consumed, fields, err := d.Decode(truncated)
	assert.Nil(t, err)
	assert.Equal(t, 0, consumed)
	assert.Equal(t, 0, len(fields))
	assert.Equal(t, 0, d.Table().DynamicLen())

	// Feeding the rest alongside what was withheld completes the block.
	consumed, fields, err = d.Decode(full)
	assert.Nil(t, err)
	assert.Equal(t, len(full), consumed)
	assert.Equal(t, []HeaderField{{Name: "custom-key", Value: "custom-value"}}, fields)
}

func TestDecodeInvalidIndexErrors(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.Nil(t, w.WriteBit(1))
	assert.Nil(t, w.WriteInt(7, uint64(len(staticTable)+1)))

	host := newTestHost(4096)
	d := NewDecoder(host)
	_, _, err := d.Decode(buf.Bytes())
	assert.Equal(t, ErrInvalidIndex, err)
}
