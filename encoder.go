package hpack

import (
	"io"
	"strings"
)

// Encoder holds one direction's encoding context: the dynamic table D (kept
// in lockstep with the peer's decoder) and the reference set R. An Encoder
// must not be shared across goroutines without external mutual exclusion.
type Encoder struct {
	logged
	table   *Table
	host    Host
	errored bool

	minCapacity  *int
	nextCapacity *int
}

// NewEncoder creates an Encoder whose dynamic table ceiling comes from
// host's negotiated maximum header table size.
func NewEncoder(host Host) *Encoder {
	if host == nil {
		host = defaultHost{maxSize: 4096}
	}
	return &Encoder{
		logged: newLogged(),
		table:  NewTable(host.MaxHeaderTableSize()),
		host:   host,
	}
}

// Table exposes the encoder's dynamic table, primarily for tests and
// diagnostics.
func (e *Encoder) Table() *Table {
	return e.table
}

// SetCapacity queues a dynamic table size change to be emitted at the start
// of the next Encode call. Multiple calls between two Encode calls are
// coalesced into at most two table-size-update representations (the
// smallest requested capacity, then the final one), the same queuing the
// teacher's encoder does for capacity changes that arrive faster than they
// can be flushed to the wire.
func (e *Encoder) SetCapacity(capacity int) error {
	if capacity > e.host.MaxHeaderTableSize() {
		return ErrOversizedTableUpdate
	}
	if e.nextCapacity == nil {
		min, next := capacity, capacity
		e.minCapacity, e.nextCapacity = &min, &next
		return nil
	}
	if capacity < *e.minCapacity {
		*e.minCapacity = capacity
	}
	*e.nextCapacity = capacity
	return nil
}

func (e *Encoder) fail(err error) error {
	e.errored = true
	e.host.Raise(err)
	return err
}

// Encode writes a complete header block representing fields to w. Fields
// sharing a name are coalesced into a single NUL-joined value, in the order
// the first occurrence of that name appeared.
func (e *Encoder) Encode(w io.Writer, fields []HeaderField) error {
	if e.errored {
		return ErrCodecErrored
	}

	hw := NewWriter(w)

	if e.nextCapacity != nil {
		if *e.minCapacity != *e.nextCapacity {
			if err := e.writeTableSizeUpdate(hw, *e.minCapacity); err != nil {
				return e.fail(err)
			}
		}
		if err := e.writeTableSizeUpdate(hw, *e.nextCapacity); err != nil {
			return e.fail(err)
		}
		if err := e.table.SetCapacity(*e.nextCapacity); err != nil {
			return e.fail(err)
		}
		e.minCapacity, e.nextCapacity = nil, nil
	}

	lowered := make([]HeaderField, len(fields))
	for i, f := range fields {
		lowered[i] = HeaderField{Name: strings.ToLower(f.Name), Value: f.Value}
	}

	type combinedValue struct {
		value string
	}
	combined := make(map[string]*combinedValue)
	for _, f := range lowered {
		if c, ok := combined[f.Name]; ok {
			c.value = c.value + "\x00" + f.Value
		} else {
			combined[f.Name] = &combinedValue{value: f.Value}
		}
	}

	// Reconcile R against the new header set: a member whose name won't
	// appear at all this block empties the whole reference set (the
	// encoder's simplest, if coarse, way to drop it); a member whose name
	// appears but with a different value is individually toggled off so it
	// doesn't leak into this block's output; a member that already matches
	// exactly is excluded from further processing below. Emptying the
	// reference set also drops every exclusion recorded before it.
	excluded := make(map[string]bool)
	for _, idx := range e.table.ReferencedIndices() {
		entry, err := e.table.DynamicEntry(idx)
		if err != nil {
			return e.fail(err)
		}
		c, ok := combined[entry.name]
		if !ok {
			if err := e.writeEmptyReferenceSet(hw); err != nil {
				return e.fail(err)
			}
			e.table.ClearReferences()
			excluded = make(map[string]bool)
			break
		}
		if c.value == entry.value {
			excluded[entry.name] = true
			continue
		}
		if err := e.writeIndexed(hw, idx); err != nil {
			return e.fail(err)
		}
		entry.referenced = false
	}

	emitted := make(map[string]bool)
	for _, f := range lowered {
		if excluded[f.Name] || emitted[f.Name] {
			continue
		}
		c := combined[f.Name]
		if err := e.encodeOne(hw, f.Name, c.value); err != nil {
			return e.fail(err)
		}
		emitted[f.Name] = true
	}
	return nil
}

// encodeOne picks the cheapest representation for one (name, value) pair,
// in priority order: exact match in D, name match in D, exact match in S,
// name match in S, new literal. Every emitted literal uses the
// incremental-indexing form; the never-indexed and without-indexing
// representations exist for a decoder to accept from other
// implementations, but this encoder never produces them (an encoder always
// has the option of indexing, so it always takes it).
func (e *Encoder) encodeOne(w *Writer, name, value string) error {
	if idx, ok := e.table.FindNameValue(name, value); ok {
		if e.table.IsDynamic(idx) {
			entry, err := e.table.DynamicEntry(idx)
			if err != nil {
				return err
			}
			entry.referenced = true
			return e.writeIndexed(w, idx)
		}
		if nameIdx, ok := e.table.FindName(name); ok && e.table.IsDynamic(nameIdx) {
			if err := e.writeLiteralIncrementalIndexedName(w, nameIdx, value); err != nil {
				return err
			}
			e.table.Insert(name, value).referenced = true
			return nil
		}
		if err := e.writeIndexed(w, idx); err != nil {
			return err
		}
		e.table.Insert(name, value).referenced = true
		return nil
	}

	if idx, ok := e.table.FindName(name); ok {
		if err := e.writeLiteralIncrementalIndexedName(w, idx, value); err != nil {
			return err
		}
		e.table.Insert(name, value).referenced = true
		return nil
	}

	if err := e.writeLiteralIncrementalNewName(w, name, value); err != nil {
		return err
	}
	e.table.Insert(name, value).referenced = true
	return nil
}

func (e *Encoder) writeIndexed(w *Writer, index int) error {
	if err := w.WriteBit(1); err != nil {
		return err
	}
	return w.WriteInt(7, uint64(index))
}

func (e *Encoder) writeLiteralIncrementalNewName(w *Writer, name, value string) error {
	if err := w.WriteBit(0); err != nil {
		return err
	}
	if err := w.WriteBit(1); err != nil {
		return err
	}
	if err := w.WriteInt(6, 0); err != nil {
		return err
	}
	if err := w.WriteString(name); err != nil {
		return err
	}
	return w.WriteString(value)
}

func (e *Encoder) writeLiteralIncrementalIndexedName(w *Writer, index int, value string) error {
	if err := w.WriteBit(0); err != nil {
		return err
	}
	if err := w.WriteBit(1); err != nil {
		return err
	}
	if err := w.WriteInt(6, uint64(index)); err != nil {
		return err
	}
	return w.WriteString(value)
}

func (e *Encoder) writeEmptyReferenceSet(w *Writer) error {
	if err := w.WriteBits(0x3, 4); err != nil {
		return err
	}
	return w.WriteBits(0, 4)
}

func (e *Encoder) writeTableSizeUpdate(w *Writer, size int) error {
	if err := w.WriteBits(0x2, 4); err != nil {
		return err
	}
	return w.WriteInt(4, uint64(size))
}
