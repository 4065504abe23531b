// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// gmc-dump decodes and displays GMC history files.
//
// Usage: gmc-dump FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> gmc-dump ./GMC-500-History-20240101_00_00_00.bin
//	=== ./GMC-500-History-20240101_00_00_00.bin ===
//	records: 244
//	2024-01-01 00:00:00 per-second    2 CPS
//	2024-01-01 00:00:01 per-second    0 CPS
//	[...]
//	2024-01-01 00:01:00 per-minute  114 CPM (60 samples)
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/martinheinrich2/gmc500/hist"
)

func main() {
	log.SetPrefix("gmc-dump: ")
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Printf(`gmc-dump decodes and displays GMC history files.

Usage: gmc-dump FILE1 [FILE2 [FILE3 ...]]

Example:

 $> gmc-dump ./GMC-500-History-20240101_00_00_00.bin
 === ./GMC-500-History-20240101_00_00_00.bin ===
 records: 244
 2024-01-01 00:00:00 per-second    2 CPS
 2024-01-01 00:00:01 per-second    0 CPS
 [...]
 2024-01-01 00:01:00 per-minute  114 CPM (60 samples)

`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing path to input history file")
	}

	for _, fname := range flag.Args() {
		err := process(os.Stdout, fname)
		if err != nil {
			log.Fatalf("could not dump file %q: %+v", fname, err)
		}
	}
}

func process(w io.Writer, fname string) error {
	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	raw, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("could not read %q: %w", fname, err)
	}

	recs, err := hist.Decode(raw)
	if err != nil {
		return fmt.Errorf("could not decode history: %w", err)
	}

	fmt.Fprintf(wbuf, "=== %s ===\n", fname)
	fmt.Fprintf(wbuf, "records: %d\n", len(recs))
	for _, rec := range recs {
		switch rec.Kind {
		case hist.KindSecond:
			fmt.Fprintf(wbuf, "%s %v % 4d CPS\n",
				rec.Time.Format("2006-01-02 15:04:05"), rec.Kind, rec.Count,
			)
		case hist.KindMinute:
			fmt.Fprintf(wbuf, "%s %v % 4d CPM",
				rec.Time.Format("2006-01-02 15:04:05"), rec.Kind, rec.Count,
			)
			if len(rec.Series) > 0 {
				fmt.Fprintf(wbuf, " (%d samples)", len(rec.Series))
			}
			fmt.Fprintf(wbuf, "\n")
		}
	}

	return nil
}
