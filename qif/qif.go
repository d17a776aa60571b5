// Package qif reads and writes the QIF corpus format used for offline
// interop testing: https://github.com/quicwg/base-drafts/wiki/QPACK-Offline-Interop
//
// A QIF file is a sequence of header blocks, one per line group: each
// header field is a name and a tab-separated value, a blank line ends the
// current block, and lines starting with '#' are comments.
package qif

import (
	"bytes"
	"io"

	hpack "github.com/martinthomson/hpack-draft"
)

// Reader reads successive header blocks from a QIF file.
type Reader struct {
	r   io.Reader
	eol bool
}

// NewReader wraps r as a QIF reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

func (qr *Reader) rawReadByte() (byte, error) {
	if br, ok := qr.r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	var buf [1]byte
	n, err := qr.r.Read(buf[:])
	if err != nil {
		return 0, err
	}
	if n != 1 {
		return 0, io.ErrNoProgress
	}
	return buf[0], nil
}

// readByte collapses CRLF into a single line ending.
func (qr *Reader) readByte() (byte, error) {
	b, err := qr.rawReadByte()
	if err == nil && qr.eol && b == '\n' {
		b, err = qr.rawReadByte()
	}
	qr.eol = b == '\r'
	return b, err
}

func (qr *Reader) readLine() ([]byte, error) {
	var buf bytes.Buffer
	for {
		b, err := qr.readByte()
		if err != nil {
			if err == io.EOF && buf.Len() > 0 {
				return buf.Bytes(), nil
			}
			return nil, err
		}
		if b == '\r' || b == '\n' {
			return buf.Bytes(), nil
		}
		buf.WriteByte(b)
	}
}

// readHeaderField reads one header field line. It returns nil, nil for a
// blank line (end of block) and skips comment lines transparently.
func (qr *Reader) readHeaderField() (*hpack.HeaderField, error) {
	line, err := qr.readLine()
	if err != nil {
		return nil, err
	}
	for len(line) > 0 && line[0] == '#' {
		line, err = qr.readLine()
		if err != nil {
			return nil, err
		}
	}
	if len(line) == 0 {
		return nil, nil
	}
	parts := bytes.SplitN(line, []byte{'\t'}, 2)
	value := ""
	if len(parts) == 2 {
		value = string(parts[1])
	}
	return &hpack.HeaderField{Name: string(parts[0]), Value: value}, nil
}

// ReadHeaderBlock reads one header block, returning io.EOF once the
// underlying reader is exhausted between blocks.
func (qr *Reader) ReadHeaderBlock() ([]hpack.HeaderField, error) {
	var block []hpack.HeaderField
	for {
		hf, err := qr.readHeaderField()
		if err != nil {
			if err == io.EOF && len(block) > 0 {
				return block, nil
			}
			return nil, err
		}
		if hf == nil {
			return block, nil
		}
		block = append(block, *hf)
	}
}

// Writer writes successive header blocks in QIF format.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w as a QIF writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeaderBlock writes one header block followed by a blank line.
func (qw *Writer) WriteHeaderBlock(block []hpack.HeaderField) error {
	for _, hf := range block {
		if _, err := io.WriteString(qw.w, hf.Name+"\t"+hf.Value+"\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(qw.w, "\n")
	return err
}
