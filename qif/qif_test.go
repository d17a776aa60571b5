package qif_test

import (
	"bytes"
	"io"
	"testing"

	hpack "github.com/martinthomson/hpack-draft"
	"github.com/martinthomson/hpack-draft/qif"
	"github.com/stvp/assert"
)

func TestReadHeaderBlock(t *testing.T) {
	src := "# comment\n:method\tGET\n:path\t/\n\n:status\t200\ncontent-type\ttext/html\n\n"
	r := qif.NewReader(bytes.NewBufferString(src))

	block, err := r.ReadHeaderBlock()
	assert.Nil(t, err)
	assert.Equal(t, []hpack.HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: ":path", Value: "/"},
	}, block)

	block, err = r.ReadHeaderBlock()
	assert.Nil(t, err)
	assert.Equal(t, []hpack.HeaderField{
		{Name: ":status", Value: "200"},
		{Name: "content-type", Value: "text/html"},
	}, block)

	_, err = r.ReadHeaderBlock()
	assert.Equal(t, io.EOF, err)
}

func TestWriteHeaderBlock(t *testing.T) {
	var buf bytes.Buffer
	w := qif.NewWriter(&buf)
	err := w.WriteHeaderBlock([]hpack.HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: ":path", Value: "/"},
	})
	assert.Nil(t, err)
	assert.Equal(t, ":method\tGET\n:path\t/\n\n", buf.String())
}

func TestRoundTrip(t *testing.T) {
	blocks := [][]hpack.HeaderField{
		{{Name: ":method", Value: "GET"}, {Name: ":path", Value: "/"}},
		{{Name: ":status", Value: "200"}},
	}
	var buf bytes.Buffer
	w := qif.NewWriter(&buf)
	for _, b := range blocks {
		assert.Nil(t, w.WriteHeaderBlock(b))
	}

	r := qif.NewReader(&buf)
	for _, want := range blocks {
		got, err := r.ReadHeaderBlock()
		assert.Nil(t, err)
		assert.Equal(t, want, got)
	}
}
