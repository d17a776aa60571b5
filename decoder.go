package hpack

import (
	"bytes"
	"io"
)

// Decoder holds one direction's decoding context: the dynamic table D, the
// reference set R (carried on D's entries), and the host this decoder
// reports compression errors to. A Decoder must not be shared across
// goroutines without external mutual exclusion.
type Decoder struct {
	logged
	table   *Table
	host    Host
	errored bool

	// touched tracks, for the Decode call in progress, every dynamic entry
	// an explicit representation referenced. It is consulted at the end of
	// a successfully decoded block to find entries that remained in R the
	// whole time — per the reference-set model, those are implicitly part
	// of this block's output even though no representation named them.
	touched map[*dynamicEntry]bool
}

// NewDecoder creates a Decoder whose dynamic table ceiling comes from host's
// negotiated maximum header table size. A nil host behaves as a silent
// default with a 4096-octet ceiling (the usual initial SETTINGS value).
func NewDecoder(host Host) *Decoder {
	if host == nil {
		host = defaultHost{maxSize: 4096}
	}
	return &Decoder{logged: newLogged(), table: NewTable(host.MaxHeaderTableSize()), host: host}
}

// Table exposes the decoder's dynamic table, primarily for tests and
// diagnostics.
func (d *Decoder) Table() *Table {
	return d.table
}

// Decode processes as much of data as forms complete representations,
// returning the header fields produced and the number of bytes consumed.
// If the final representation in data is truncated, consumed stops short of
// len(data) and the table/reference-set state is left exactly as it was
// before that final, incomplete representation was attempted — callers
// streaming CONTINUATION frames should retry with the unconsumed remainder
// appended to more data.
func (d *Decoder) Decode(data []byte) (consumed int, fields []HeaderField, err error) {
	if d.errored {
		return 0, nil, ErrCodecErrored
	}
	d.touched = make(map[*dynamicEntry]bool)

	offset := 0
	for offset < len(data) {
		n, hf, derr := d.decodeOne(data[offset:])
		if derr == io.EOF || derr == io.ErrUnexpectedEOF {
			return offset, fields, nil
		}
		if derr != nil {
			d.errored = true
			d.host.Raise(derr)
			return offset, fields, derr
		}
		offset += n
		if hf != nil {
			fields = append(fields, *hf)
		}
	}

	var implicit []HeaderField
	for _, e := range d.table.entriesOldestFirst() {
		if e.referenced && !d.touched[e] {
			implicit = append(implicit, HeaderField{Name: e.name, Value: e.value})
		}
	}
	return offset, append(implicit, fields...), nil
}

func (d *Decoder) decodeOne(buf []byte) (int, *HeaderField, error) {
	br := bytes.NewReader(buf)
	r := NewReader(br)
	hf, err := d.decodeRepresentation(r)
	if err != nil {
		return 0, nil, err
	}
	return len(buf) - br.Len(), hf, nil
}

func (d *Decoder) decodeRepresentation(r *Reader) (*HeaderField, error) {
	bit0, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	if bit0 == 1 {
		return d.decodeIndexed(r)
	}

	bit1, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	if bit1 == 1 {
		return d.decodeLiteralIncremental(r)
	}

	bit2, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	bit3, err := r.ReadBit()
	if err != nil {
		return nil, err
	}
	switch {
	case bit2 == 0 && bit3 == 0:
		return d.decodeLiteral(r)
	case bit2 == 0 && bit3 == 1:
		return d.decodeLiteral(r)
	case bit2 == 1 && bit3 == 0:
		return nil, d.decodeTableSizeUpdate(r)
	default:
		return nil, d.decodeEmptyReferenceSet(r)
	}
}

// decodeIndexed handles the indexed header field representation. A dynamic
// index toggles that entry's reference-set membership, emitting the field
// only on the on-transition. A static index always emits and also inserts a
// new dynamic entry for it (the draft's documented behavior, preserved for
// wire compatibility rather than "corrected" against later HPACK drafts).
func (d *Decoder) decodeIndexed(r *Reader) (*HeaderField, error) {
	index, err := r.ReadInt(7)
	if err != nil {
		return nil, err
	}
	if index == 0 {
		return nil, ErrInvalidIndex
	}
	i := int(index)

	if d.table.IsDynamic(i) {
		e, err := d.table.DynamicEntry(i)
		if err != nil {
			return nil, err
		}
		e.referenced = !e.referenced
		d.touched[e] = true
		d.logf("indexed %d: referenced=%v", i, e.referenced)
		if !e.referenced {
			return nil, nil
		}
		return &HeaderField{Name: e.name, Value: e.value}, nil
	}

	entry, err := d.table.Get(i)
	if err != nil {
		return nil, err
	}
	hf := HeaderField{Name: entry.Name(), Value: entry.Value()}
	newEntry := d.table.Insert(hf.Name, hf.Value)
	newEntry.referenced = true
	d.touched[newEntry] = true
	return &hf, nil
}

func (d *Decoder) decodeLiteralIncremental(r *Reader) (*HeaderField, error) {
	index, err := r.ReadInt(6)
	if err != nil {
		return nil, err
	}
	name, value, err := d.readNameValue(r, int(index))
	if err != nil {
		return nil, err
	}
	e := d.table.Insert(name, value)
	e.referenced = true
	d.touched[e] = true
	return &HeaderField{Name: name, Value: value}, nil
}

// decodeLiteral handles both the without-indexing and never-indexed
// representations: neither inserts into D, and this decoder makes no
// distinction between them since it never re-serializes a received block.
func (d *Decoder) decodeLiteral(r *Reader) (*HeaderField, error) {
	index, err := r.ReadInt(4)
	if err != nil {
		return nil, err
	}
	name, value, err := d.readNameValue(r, int(index))
	if err != nil {
		return nil, err
	}
	return &HeaderField{Name: name, Value: value}, nil
}

func (d *Decoder) readNameValue(r *Reader, index int) (name, value string, err error) {
	if index == 0 {
		name, err = r.ReadString()
		if err != nil {
			return "", "", err
		}
	} else {
		entry, err := d.table.Get(index)
		if err != nil {
			return "", "", err
		}
		name = entry.Name()
	}
	value, err = r.ReadString()
	if err != nil {
		return "", "", err
	}
	return name, value, nil
}

func (d *Decoder) decodeTableSizeUpdate(r *Reader) error {
	size, err := r.ReadInt(4)
	if err != nil {
		return err
	}
	if err := d.table.SetCapacity(int(size)); err != nil {
		return err
	}
	d.logf("table size update: %d", size)
	return nil
}

func (d *Decoder) decodeEmptyReferenceSet(r *Reader) error {
	rest, err := r.ReadBits(4)
	if err != nil {
		return err
	}
	if rest != 0 {
		return ErrUnknownOpcode
	}
	d.table.ClearReferences()
	d.logf("reference set cleared")
	return nil
}
