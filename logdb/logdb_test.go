// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logdb

import (
	"context"
	"database/sql/driver"
	"reflect"
	"testing"
	"time"

	"github.com/martinheinrich2/gmc500/hist"
	"github.com/martinheinrich2/gmc500/internal/fakedb"
)

func init() {
	drvName = "fakedb"
}

var t0 = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestOpen(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open logdb: %+v", err)
	}
	defer db.Close()
}

func TestInsertRecords(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open logdb: %+v", err)
	}
	defer db.Close()

	recs := []hist.Record{
		{Time: t0, Kind: hist.KindSecond, Count: 2},
		{Time: t0.Add(1 * time.Second), Kind: hist.KindSecond, Count: 3},
		{Time: t0.Add(1 * time.Minute), Kind: hist.KindMinute, Count: 120},
	}

	_ = fakedb.Run(context.Background(), fakedb.Rows{}, func(ctx context.Context) error {
		err := db.InsertRecords(ctx, "GMC-500+", recs)
		if err != nil {
			t.Fatalf("could not insert records: %+v", err)
		}

		execs := fakedb.Execs()
		if got, want := len(execs), len(recs); got != want {
			t.Fatalf("invalid number of inserts: got=%d, want=%d", got, want)
		}
		want := []driver.Value{"GMC-500+", t0.Add(1 * time.Minute), "per-minute", int64(120)}
		if got := execs[2]; !reflect.DeepEqual(got, want) {
			t.Fatalf("invalid insert args:\ngot= %#v\nwant=%#v", got, want)
		}
		return nil
	})
}

func TestInsertReading(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open logdb: %+v", err)
	}
	defer db.Close()

	_ = fakedb.Run(context.Background(), fakedb.Rows{}, func(ctx context.Context) error {
		err := db.InsertReading(ctx, "GMC-500+", t0, 42)
		if err != nil {
			t.Fatalf("could not insert reading: %+v", err)
		}
		if got, want := len(fakedb.Execs()), 1; got != want {
			t.Fatalf("invalid number of inserts: got=%d, want=%d", got, want)
		}
		return nil
	})
}

func TestReadings(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open logdb: %+v", err)
	}
	defer db.Close()

	rows := fakedb.Rows{
		Names: []string{"device", "datetime", "kind", "count"},
		Values: [][]driver.Value{
			{"GMC-500+", t0, "per-second", int64(2)},
			{"GMC-500+", t0.Add(1 * time.Second), "per-second", int64(3)},
		},
	}

	_ = fakedb.Run(context.Background(), rows, func(ctx context.Context) error {
		recs, err := db.Readings(ctx, "GMC-500+", t0)
		if err != nil {
			t.Fatalf("could not query readings: %+v", err)
		}
		want := []Reading{
			{Device: "GMC-500+", Time: t0, Kind: "per-second", Count: 2},
			{Device: "GMC-500+", Time: t0.Add(1 * time.Second), Kind: "per-second", Count: 3},
		}
		if !reflect.DeepEqual(recs, want) {
			t.Fatalf("invalid readings:\ngot= %#v\nwant=%#v", recs, want)
		}
		return nil
	})
}

func TestLastReading(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open logdb: %+v", err)
	}
	defer db.Close()

	rows := fakedb.Rows{
		Names: []string{"device", "datetime", "kind", "count"},
		Values: [][]driver.Value{
			{"GMC-500+", t0.Add(1 * time.Minute), "per-minute", int64(120)},
		},
	}

	_ = fakedb.Run(context.Background(), rows, func(ctx context.Context) error {
		r, err := db.LastReading(ctx, "GMC-500+")
		if err != nil {
			t.Fatalf("could not query last reading: %+v", err)
		}
		want := Reading{Device: "GMC-500+", Time: t0.Add(1 * time.Minute), Kind: "per-minute", Count: 120}
		if !reflect.DeepEqual(r, want) {
			t.Fatalf("invalid last reading:\ngot= %#v\nwant=%#v", r, want)
		}
		return nil
	})
}

func TestLastReadingEmpty(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open logdb: %+v", err)
	}
	defer db.Close()

	_ = fakedb.Run(context.Background(), fakedb.Rows{}, func(ctx context.Context) error {
		_, err := db.LastReading(ctx, "GMC-500+")
		if err == nil {
			t.Fatalf("empty database did not fail")
		}
		return nil
	})
}
