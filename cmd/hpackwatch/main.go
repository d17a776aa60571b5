// Command hpackwatch watches a directory of QIF corpus files and re-runs the
// round-trip check from hpackctl whenever one changes, for fast iteration
// against a local corpus while working on the codec.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	hpack "github.com/martinthomson/hpack-draft"
	"github.com/martinthomson/hpack-draft/qif"

	"github.com/fsnotify/fsnotify"
)

type watchHost struct {
	maxSize int
}

func (h watchHost) MaxHeaderTableSize() int { return h.maxSize }
func (h watchHost) Raise(err error)         { fmt.Fprintf(os.Stderr, "compression error: %v\n", err) }

func check(path string, tableSize int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := qif.NewReader(f)
	enc := hpack.NewEncoder(watchHost{tableSize})
	dec := hpack.NewDecoder(watchHost{tableSize})

	blockNum := 0
	for {
		block, err := r.ReadHeaderBlock()
		if err != nil {
			return nil
		}
		blockNum++

		var wire bytes.Buffer
		if err := enc.Encode(&wire, block); err != nil {
			return fmt.Errorf("block %d: encode: %w", blockNum, err)
		}
		_, got, err := dec.Decode(wire.Bytes())
		if err != nil {
			return fmt.Errorf("block %d: decode: %w", blockNum, err)
		}
		if len(got) != len(block) {
			return fmt.Errorf("block %d: round trip mismatch: sent %d fields, got %d", blockNum, len(block), len(got))
		}
		for i := range block {
			if block[i] != got[i] {
				return fmt.Errorf("block %d: round trip mismatch at field %d: sent %v, got %v", blockNum, i, block[i], got[i])
			}
		}
	}
}

func main() {
	dir := flag.String("dir", ".", "directory of QIF files to watch")
	tableSize := flag.Int("table-size", 4096, "dynamic table size to negotiate on both sides")
	flag.Parse()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("creating watcher: %v", err)
	}
	defer watcher.Close()

	if err := watcher.Add(*dir); err != nil {
		log.Fatalf("watching %s: %v", *dir, err)
	}

	log.Printf("watching %s for QIF changes\n", *dir)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("reading %s: %v", *dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".qif") {
			continue
		}
		path := filepath.Join(*dir, entry.Name())
		if err := check(path, *tableSize); err != nil {
			log.Printf("%s: %v", path, err)
		} else {
			log.Printf("%s: ok\n", path)
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".qif") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := check(event.Name, *tableSize); err != nil {
				log.Printf("%s: %v", event.Name, err)
			} else {
				log.Printf("%s: ok\n", event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}
