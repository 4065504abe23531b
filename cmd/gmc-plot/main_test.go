// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/martinheinrich2/gmc500/hist"
)

func TestProcess(t *testing.T) {
	tmp, err := os.MkdirTemp("", "gmc-plot-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	buf := new(bytes.Buffer)
	enc := hist.NewEncoder(buf)
	t0 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, err := range []error{
		enc.Timestamp(t0),
		enc.SaveMode(hist.ModePerMinute),
		enc.Count(23),
		enc.Count(42),
		enc.Count(500),
		enc.EndOfData(),
	} {
		if err != nil {
			t.Fatalf("could not encode history: %+v", err)
		}
	}

	fname := filepath.Join(tmp, "hist.bin")
	err = os.WriteFile(fname, buf.Bytes(), 0644)
	if err != nil {
		t.Fatalf("could not write history file: %+v", err)
	}

	oname := filepath.Join(tmp, "hist.png")
	err = process(oname, fname, 10)
	if err != nil {
		t.Fatalf("could not process %q: %+v", fname, err)
	}

	fi, err := os.Stat(oname)
	if err != nil {
		t.Fatalf("could not stat %q: %+v", oname, err)
	}
	if fi.Size() == 0 {
		t.Fatalf("empty plot file %q", oname)
	}
}

func TestProcessNoMinuteRecords(t *testing.T) {
	tmp, err := os.MkdirTemp("", "gmc-plot-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	fname := filepath.Join(tmp, "empty.bin")
	err = os.WriteFile(fname, []byte{0xff, 0xff, 0xff}, 0644)
	if err != nil {
		t.Fatalf("could not write history file: %+v", err)
	}

	err = process(filepath.Join(tmp, "empty.png"), fname, 10)
	if err == nil {
		t.Fatalf("expected an error for a history without CPM records")
	}
}
