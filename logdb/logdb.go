// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logdb stores decoded history records and live monitor samples
// from GMC geiger counters in a MySQL database.
package logdb // import "github.com/martinheinrich2/gmc500/logdb"

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/martinheinrich2/gmc500/hist"
)

const (
	host = "localhost"
)

var (
	usr = "gmc"
	pwd = "s3cr3t"

	drvName = "mysql"
)

// DB exposes convenience methods to store and retrieve geiger-counter
// readings from the gmc500 database.
type DB struct {
	db   *sql.DB
	name string
}

// Open opens a connection to the readings database dbname.
func Open(dbname string) (*DB, error) {
	db, err := sql.Open(drvName, dsn(dbname))
	if err != nil {
		return nil, fmt.Errorf("logdb: could not open %q db: %w", dbname, err)
	}

	err = ping(db, dbname)
	if err != nil {
		return nil, fmt.Errorf("logdb: could not ping %q db: %w", dbname, err)
	}

	return &DB{db: db, name: dbname}, nil
}

func dsn(db string) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", usr, pwd, host, db)
}

func ping(db *sql.DB, dbname string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("logdb: could not ping %q db: %w", dbname, err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// Init creates the readings table if it does not exist yet.
func (db *DB) Init(ctx context.Context) error {
	_, err := db.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS readings (
	id       BIGINT AUTO_INCREMENT PRIMARY KEY,
	device   VARCHAR(64)  NOT NULL,
	datetime DATETIME     NOT NULL,
	kind     VARCHAR(16)  NOT NULL,
	count    INT          NOT NULL,
	INDEX (device, datetime)
)`)
	if err != nil {
		return fmt.Errorf("logdb: could not create readings table: %w", err)
	}
	return nil
}

// Reading is one stored geiger-counter sample.
type Reading struct {
	Device string
	Time   time.Time
	Kind   string // "per-second" or "per-minute"
	Count  int
}

// InsertRecords stores decoded history records for the named device.
func (db *DB) InsertRecords(ctx context.Context, device string, recs []hist.Record) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("logdb: could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO readings (device, datetime, kind, count) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("logdb: could not prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range recs {
		_, err = stmt.ExecContext(ctx, device, rec.Time, rec.Kind.String(), rec.Count)
		if err != nil {
			return fmt.Errorf("logdb: could not insert record %d: %w", i, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("logdb: could not commit %d records: %w", len(recs), err)
	}
	return nil
}

// InsertReading stores one live CPM sample for the named device.
func (db *DB) InsertReading(ctx context.Context, device string, t time.Time, cpm int) error {
	_, err := db.db.ExecContext(ctx,
		"INSERT INTO readings (device, datetime, kind, count) VALUES (?, ?, ?, ?)",
		device, t, hist.KindMinute.String(), cpm,
	)
	if err != nil {
		return fmt.Errorf("logdb: could not insert reading: %w", err)
	}
	return nil
}

// Readings retrieves the stored samples of the named device since the
// given time, in chronological order.
func (db *DB) Readings(ctx context.Context, device string, since time.Time) ([]Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := db.db.QueryContext(ctx,
		"SELECT device, datetime, kind, count FROM readings WHERE device = ? AND datetime >= ? ORDER BY datetime",
		device, since,
	)
	if err != nil {
		return nil, fmt.Errorf("logdb: could not query readings: %w", err)
	}
	defer rows.Close()

	var recs []Reading
	for rows.Next() {
		var r Reading
		err = rows.Scan(&r.Device, &r.Time, &r.Kind, &r.Count)
		if err != nil {
			return nil, fmt.Errorf("logdb: could not scan reading: %w", err)
		}
		recs = append(recs, r)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("logdb: could not iterate over readings: %w", err)
	}

	return recs, nil
}

// LastReading retrieves the most recent stored sample of the named device.
func (db *DB) LastReading(ctx context.Context, device string) (Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var r Reading
	rows, err := db.db.QueryContext(ctx,
		"SELECT device, datetime, kind, count FROM readings WHERE device = ? ORDER BY datetime DESC LIMIT 1",
		device,
	)
	if err != nil {
		return r, fmt.Errorf("logdb: could not query last reading: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return r, fmt.Errorf("logdb: no reading stored for device %q", device)
	}
	err = rows.Scan(&r.Device, &r.Time, &r.Kind, &r.Count)
	if err != nil {
		return r, fmt.Errorf("logdb: could not scan last reading: %w", err)
	}

	return r, nil
}
