// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gmc2csv converts a GMC history file into a CSV file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/martinheinrich2/gmc500/hist"
	"github.com/martinheinrich2/gmc500/internal/xcsv"
)

func main() {
	log.SetPrefix("gmc2csv: ")
	log.SetFlags(0)

	var (
		oname = flag.String("o", "", "path to output CSV file (default: input with .csv extension)")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: gmc2csv [OPTIONS] file.bin

ex:
 $> gmc2csv -o out.csv ./GMC-500-History-20240101_00_00_00.bin

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatalf("missing input history file")
	}

	fname := flag.Arg(0)
	out := *oname
	if out == "" {
		out = strings.TrimSuffix(fname, ".bin") + ".csv"
	}

	err := process(out, fname)
	if err != nil {
		log.Fatalf("could not convert %q: %+v", fname, err)
	}
	log.Printf("output: %s", out)
}

func process(oname, fname string) error {
	raw, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("could not read %q: %w", fname, err)
	}

	recs, err := hist.Decode(raw)
	if err != nil {
		return fmt.Errorf("could not decode history: %w", err)
	}
	log.Printf("records: %d", len(recs))

	f, err := os.Create(oname)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", oname, err)
	}
	defer f.Close()

	err = xcsv.Export(f, recs)
	if err != nil {
		return fmt.Errorf("could not export records: %w", err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("could not close %q: %w", oname, err)
	}
	return nil
}
