// Command hpackctl round-trips a QIF corpus file (or a directory of them)
// through the codec, reporting any block whose decoded fields don't match
// the encoder's input.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	hpack "github.com/martinthomson/hpack-draft"
	"github.com/martinthomson/hpack-draft/qif"
	"golang.org/x/sync/errgroup"
)

type cliHost struct {
	maxSize int
}

func (h cliHost) MaxHeaderTableSize() int { return h.maxSize }
func (h cliHost) Raise(err error)         { fmt.Fprintf(os.Stderr, "compression error: %v\n", err) }

func roundTripFile(path string, tableSize int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := qif.NewReader(f)
	enc := hpack.NewEncoder(cliHost{tableSize})
	dec := hpack.NewDecoder(cliHost{tableSize})

	blockNum := 0
	for {
		block, err := r.ReadHeaderBlock()
		if err != nil {
			break
		}
		blockNum++

		var wire bytes.Buffer
		if err := enc.Encode(&wire, block); err != nil {
			return fmt.Errorf("%s: block %d: encode: %w", path, blockNum, err)
		}

		_, got, err := dec.Decode(wire.Bytes())
		if err != nil {
			return fmt.Errorf("%s: block %d: decode: %w", path, blockNum, err)
		}
		if !headerFieldsEqual(block, got) {
			return fmt.Errorf("%s: block %d: round trip mismatch: sent %v, got %v", path, blockNum, block, got)
		}
	}
	return nil
}

func headerFieldsEqual(a, b []hpack.HeaderField) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func main() {
	dir := flag.String("dir", "", "round-trip every QIF file in this directory concurrently")
	tableSize := flag.Int("table-size", 4096, "dynamic table size to negotiate on both sides")
	flag.Parse()

	if *dir != "" {
		entries, err := os.ReadDir(*dir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		var g errgroup.Group
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(*dir, entry.Name())
			g.Go(func() error {
				return roundTripFile(path, *tableSize)
			})
		}
		if err := g.Wait(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	for _, path := range flag.Args() {
		if err := roundTripFile(path, *tableSize); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
