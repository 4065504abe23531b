// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gmc-sql inspects the readings stored in the gmc500 MySQL
// database.
//
// Usage: gmc-sql [OPTIONS]
//
// ex:
//
//	$> gmc-sql -db=gmc -device=F4880039347626 -since=24h
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/martinheinrich2/gmc500/logdb"
)

func main() {
	log.SetPrefix("gmc-sql: ")
	log.SetFlags(0)

	var (
		dbname = flag.String("db", "gmc", "name of the MySQL database to inspect")
		device = flag.String("device", "", "serial number of the device to inspect")
		since  = flag.Duration("since", 24*time.Hour, "how far back to list readings")
		doInit = flag.Bool("init", false, "create the readings table and exit")
	)

	flag.Parse()

	db, err := logdb.Open(*dbname)
	if err != nil {
		log.Fatalf("could not open gmc db: %+v", err)
	}
	defer db.Close()

	err = doQuery(db, *device, *since, *doInit)
	if err != nil {
		log.Fatalf("could not do query: %+v", err)
	}
}

func doQuery(db *logdb.DB, device string, since time.Duration, doInit bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if doInit {
		err := db.Init(ctx)
		if err != nil {
			return fmt.Errorf("could not create readings table: %w", err)
		}
		log.Printf("readings table created")
		return nil
	}

	if device == "" {
		rows, err := db.QueryContext(ctx, "SELECT DISTINCT device FROM readings ORDER BY device")
		if err != nil {
			return fmt.Errorf("could not list devices: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var dev string
			err = rows.Scan(&dev)
			if err != nil {
				return fmt.Errorf("could not scan device: %w", err)
			}
			log.Printf(">>> device=%s", dev)
		}
		return rows.Err()
	}

	last, err := db.LastReading(ctx, device)
	if err != nil {
		return fmt.Errorf("could not get last reading (device=%s): %w", device, err)
	}
	log.Printf("last: %s %s %d", last.Time.Format("2006-01-02 15:04:05"), last.Kind, last.Count)

	recs, err := db.Readings(ctx, device, time.Now().Add(-since))
	if err != nil {
		return fmt.Errorf("could not get readings (device=%s): %w", device, err)
	}
	log.Printf("readings: %d", len(recs))
	for i, rec := range recs {
		log.Printf("row[%d]: %s %-10s %4d", i,
			rec.Time.Format("2006-01-02 15:04:05"), rec.Kind, rec.Count,
		)
	}

	return nil
}
