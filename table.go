package hpack

// Entry is a single row of either the static or the dynamic header table,
// addressable through the combined index space.
type Entry interface {
	Name() string
	Value() string
}

func (e staticEntry) Name() string { return e.name }
func (e staticEntry) Value() string { return e.value }

// dynamicEntry is one row of the dynamic table D. referenced carries this
// entry's membership in the reference set R directly: R is never a separate
// collection, so eviction of an entry from D removes it from R for free, and
// two entries with identical name/value remain independently trackable.
type dynamicEntry struct {
	name       string
	value      string
	referenced bool
}

func (e *dynamicEntry) Name() string  { return e.name }
func (e *dynamicEntry) Value() string { return e.value }

// Table holds the dynamic header table D and exposes combined-index lookups
// across D and the fixed static table S. Index 1 is always the most
// recently inserted entry of D; indices beyond |D| address S.
//
// A Table must not be shared across goroutines without external mutual
// exclusion (it is exactly the mutable per-direction state described by the
// codec context).
type Table struct {
	dynamic     []*dynamicEntry // dynamic[0] is index 1, the most recent entry
	size        int             // sum of entrySize over dynamic (ht_size)
	capacity    int             // current table size limit (max_ht_size)
	maxCapacity int             // ceiling SetCapacity accepts, from the host's setting
}

// NewTable creates a Table whose dynamic table starts empty with the given
// capacity, which also serves as the ceiling for later SetCapacity calls.
func NewTable(maxCapacity int) *Table {
	return &Table{capacity: maxCapacity, maxCapacity: maxCapacity}
}

// DynamicLen reports |D|, the number of live dynamic table entries.
func (t *Table) DynamicLen() int {
	return len(t.dynamic)
}

// StaticLen reports |S|.
func (t *Table) StaticLen() int {
	return len(staticTable)
}

// Get resolves a combined-space index (1-based) to its entry.
func (t *Table) Get(i int) (Entry, error) {
	if i < 1 {
		return nil, ErrInvalidIndex
	}
	if i <= len(t.dynamic) {
		return t.dynamic[i-1], nil
	}
	si := i - len(t.dynamic) - 1
	if si >= len(staticTable) {
		return nil, ErrInvalidIndex
	}
	return staticTable[si], nil
}

// IsDynamic reports whether combined-space index i addresses D rather than S.
func (t *Table) IsDynamic(i int) bool {
	return i >= 1 && i <= len(t.dynamic)
}

// DynamicEntry returns the dynamic entry at 1-based dynamic index i, the
// only way to reach a *dynamicEntry for reference-set mutation.
func (t *Table) DynamicEntry(i int) (*dynamicEntry, error) {
	if i < 1 || i > len(t.dynamic) {
		return nil, ErrInvalidIndex
	}
	return t.dynamic[i-1], nil
}

// Insert adds a new entry at the head of D (combined index 1), evicting from
// the tail until the table again fits within capacity. It returns the new
// entry, initially not referenced; callers that need it referenced set that
// explicitly.
func (t *Table) Insert(name, value string) *dynamicEntry {
	e := &dynamicEntry{name: name, value: value}
	size := entrySize(name, value)

	// An entry larger than the whole table simply doesn't fit: the table
	// ends up empty, matching RFC7541's "entry larger than capacity" rule.
	t.dynamic = append([]*dynamicEntry{e}, t.dynamic...)
	t.size += size
	t.evictToCapacity()
	return e
}

func (t *Table) evictToCapacity() {
	for t.size > t.capacity && len(t.dynamic) > 0 {
		last := t.dynamic[len(t.dynamic)-1]
		t.dynamic = t.dynamic[:len(t.dynamic)-1]
		t.size -= entrySize(last.name, last.value)
	}
}

// SetCapacity applies a new dynamic table size, evicting entries from the
// tail as needed. It rejects a capacity above maxCapacity.
func (t *Table) SetCapacity(capacity int) error {
	if capacity > t.maxCapacity {
		return ErrOversizedTableUpdate
	}
	t.capacity = capacity
	t.evictToCapacity()
	return nil
}

// Capacity reports the current negotiated dynamic table size.
func (t *Table) Capacity() int {
	return t.capacity
}

// FindNameValue returns the lowest combined-space index whose entry has
// exactly this name and value, searching D before S.
func (t *Table) FindNameValue(name, value string) (int, bool) {
	for i, e := range t.dynamic {
		if e.name == name && e.value == value {
			return i + 1, true
		}
	}
	if idx, ok := staticNameValueIndex[name+"\x00"+value]; ok {
		return len(t.dynamic) + idx, true
	}
	return 0, false
}

// FindName returns the lowest combined-space index whose entry has this
// name, searching D before S.
func (t *Table) FindName(name string) (int, bool) {
	for i, e := range t.dynamic {
		if e.name == name {
			return i + 1, true
		}
	}
	if idx, ok := staticNameIndex[name]; ok {
		return len(t.dynamic) + idx, true
	}
	return 0, false
}

// ReferencedIndices returns the current combined-space indices of every
// entry in the reference set R, in head-to-tail (index ascending) order.
func (t *Table) ReferencedIndices() []int {
	var refs []int
	for i, e := range t.dynamic {
		if e.referenced {
			refs = append(refs, i+1)
		}
	}
	return refs
}

// ClearReferences empties the reference set R without touching D, the
// effect of the empty-reference-set opcode.
func (t *Table) ClearReferences() {
	for _, e := range t.dynamic {
		e.referenced = false
	}
}

// entriesOldestFirst returns D's entries ordered from the tail (oldest,
// highest combined index) to the head (newest, index 1) — the order
// entries were originally inserted in, when no later eviction has
// disturbed it.
func (t *Table) entriesOldestFirst() []*dynamicEntry {
	out := make([]*dynamicEntry, len(t.dynamic))
	for i, e := range t.dynamic {
		out[len(t.dynamic)-1-i] = e
	}
	return out
}
