package hpack

import "strings"

// HeaderField is a single decoded or to-be-encoded header name/value pair.
type HeaderField struct {
	Name  string
	Value string
}

// entrySize is the size an entry bearing this name/value occupies in the
// dynamic table's accounting, per the fixed 32-octet per-entry overhead.
func entrySize(name, value string) int {
	return len(name) + len(value) + 32
}

// ValidatePseudoHeaders checks that all pseudo-header fields (name beginning
// with ':') in block precede all regular header fields, returning
// ErrPseudoHeaderOrdering otherwise.
func ValidatePseudoHeaders(block []HeaderField) error {
	seenRegular := false
	for _, f := range block {
		if strings.HasPrefix(f.Name, ":") {
			if seenRegular {
				return ErrPseudoHeaderOrdering
			}
			continue
		}
		seenRegular = true
	}
	return nil
}
