// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gmc-plot plots the distribution of the counts-per-minute values
// stored in a GMC history file.
//
// Usage: gmc-plot [OPTIONS] file.bin
//
// ex:
//
//	$> gmc-plot -o cpm.png ./GMC-500-History-20240101_00_00_00.bin
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"

	"github.com/martinheinrich2/gmc500/hist"
)

func main() {
	log.SetPrefix("gmc-plot: ")
	log.SetFlags(0)

	var (
		oname = flag.String("o", "", "path to output plot file (default: input with .png extension)")
		nbins = flag.Int("bins", 50, "number of histogram bins")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: gmc-plot [OPTIONS] file.bin

ex:
 $> gmc-plot -o cpm.png ./GMC-500-History-20240101_00_00_00.bin

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
		out = strings.TrimSuffix(fname, ".bin") + ".png"
	}

	err := process(out, fname, *nbins)
	if err != nil {
		log.Fatalf("could not plot %q: %+v", fname, err)
	}
	log.Printf("output: %s", out)
}

func process(oname, fname string, nbins int) error {
	raw, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("could not read %q: %w", fname, err)
	}

	recs, err := hist.Decode(raw)
	if err != nil {
		return fmt.Errorf("could not decode history: %w", err)
	}

	var (
		max  = 0.0
		cpms []float64
	)
	for _, rec := range recs {
		if rec.Kind != hist.KindMinute {
			continue
		}
		v := float64(rec.Count)
		cpms = append(cpms, v)
		if v > max {
			max = v
		}
	}
	if len(cpms) == 0 {
		return fmt.Errorf("no counts-per-minute records in %q", fname)
	}
	log.Printf("records: %d", len(cpms))

	h := hbook.NewH1D(nbins, 0, max+1)
	for _, v := range cpms {
		h.Fill(v, 1)
	}

	p := hplot.New()
	p.Title.Text = "CPM distribution"
	p.X.Label.Text = "counts per minute"
	p.Y.Label.Text = "records"

	hh := hplot.NewH1D(h)
	p.Add(hh, hplot.NewGrid())

	err = p.Save(15*vg.Centimeter, -1, oname)
	if err != nil {
		return fmt.Errorf("could not save plot to %q: %w", oname, err)
	}
	return nil
}
