// Command hpackbench runs the package's benchmarks at two dynamic table
// capacities and renders a benchstat comparison between them, so a change
// to the table's eviction or reference-set bookkeeping can be judged by its
// effect on throughput at a small table as well as a large one.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"

	"golang.org/x/perf/benchstat"
)

func runBenchmarks(pkgDir string, tableSize int, benchtime, count string, bench string) ([]byte, error) {
	args := []string{
		"test",
		"-run=^$",
		fmt.Sprintf("-bench=%s", bench),
		"-benchmem",
		fmt.Sprintf("-benchtime=%s", benchtime),
		fmt.Sprintf("-count=%s", count),
		fmt.Sprintf("-hpack.tablesize=%d", tableSize),
	}
	cmd := exec.Command("go", args...)
	cmd.Dir = pkgDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("go %v: %w\n%s", args, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

func main() {
	pkgDir := flag.String("pkg", ".", "directory of the package to benchmark")
	bench := flag.String("bench", ".", "-bench pattern forwarded to go test")
	benchtime := flag.String("benchtime", "1s", "-benchtime forwarded to go test")
	count := flag.String("count", "5", "-count forwarded to go test, for benchstat's confidence interval")
	oldSize := flag.Int("old-table-size", 256, "dynamic table capacity for the baseline run")
	newSize := flag.Int("new-table-size", 4096, "dynamic table capacity for the comparison run")
	flag.Parse()

	log.Printf("running %s at table size %d (baseline)...\n", *bench, *oldSize)
	oldOut, err := runBenchmarks(*pkgDir, *oldSize, *benchtime, *count, *bench)
	if err != nil {
		log.Fatalf("baseline run: %v", err)
	}

	log.Printf("running %s at table size %d (comparison)...\n", *bench, *newSize)
	newOut, err := runBenchmarks(*pkgDir, *newSize, *benchtime, *count, *bench)
	if err != nil {
		log.Fatalf("comparison run: %v", err)
	}

	c := &benchstat.Collection{
		Alpha:      0.05,
		AddGeoMean: false,
		DeltaTest:  benchstat.UTest,
	}
	oldLabel := fmt.Sprintf("table=%d", *oldSize)
	newLabel := fmt.Sprintf("table=%d", *newSize)
	c.AddConfig(oldLabel, oldOut)
	c.AddConfig(newLabel, newOut)

	var buf bytes.Buffer
	benchstat.FormatText(&buf, c.Tables())
	os.Stdout.Write(buf.Bytes())
}
