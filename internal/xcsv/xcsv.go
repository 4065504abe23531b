// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xcsv exports decoded history records as CSV.
package xcsv // import "github.com/martinheinrich2/gmc500/internal/xcsv"

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/martinheinrich2/gmc500/hist"
)

const timeFormat = "2006-01-02 15:04:05"

// Export writes the records to w as CSV, one row per record:
// date/time, record type, CPM and up to 60 per-second samples.
// Per-second records carry their count in the first sample column.
func Export(w io.Writer, recs []hist.Record) error {
	cw := csv.NewWriter(w)

	hdr := []string{"DateTime", "Type", "CPM"}
	for i := 1; i <= 60; i++ {
		hdr = append(hdr, fmt.Sprintf("# %d CPS", i))
	}
	err := cw.Write(hdr)
	if err != nil {
		return fmt.Errorf("xcsv: could not write header: %w", err)
	}

	row := make([]string, len(hdr))
	for i, rec := range recs {
		for j := range row {
			row[j] = ""
		}
		row[0] = rec.Time.Format(timeFormat)
		switch rec.Kind {
		case hist.KindSecond:
			row[1] = "Every Second"
			row[3] = strconv.Itoa(rec.Count)
		case hist.KindMinute:
			row[1] = "Every Minute"
			row[2] = strconv.Itoa(rec.Count)
			for j, v := range rec.Series {
				row[3+j] = strconv.Itoa(v)
			}
		}
		err = cw.Write(row)
		if err != nil {
			return fmt.Errorf("xcsv: could not write record %d: %w", i, err)
		}
	}

	cw.Flush()
	err = cw.Error()
	if err != nil {
		return fmt.Errorf("xcsv: could not flush output: %w", err)
	}
	return nil
}
