// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hist decodes the on-flash history format of GQ GMC geiger
// counters.
//
// The history region is a flat byte stream: sparse marker sequences
// (date/time stamps, save-mode switches, escaped two-byte counts and the
// end-of-data sentinel) interleaved with plain one-byte count values whose
// meaning depends on the save mode and clock carried from previous bytes.
package hist // import "github.com/martinheinrich2/gmc500/hist"

import (
	"time"
)

// Mode is the history save mode of the device.
type Mode uint8

const (
	ModeUnknown   Mode = iota // no save-mode marker seen yet
	ModePerSecond             // one count value per second
	ModePerMinute             // one count value per minute
)

func (m Mode) String() string {
	switch m {
	case ModePerSecond:
		return "per-second"
	case ModePerMinute:
		return "per-minute"
	}
	return "unknown"
}

// Kind discriminates the two granularities of history records.
type Kind uint8

const (
	KindSecond Kind = iota // counts per second
	KindMinute             // counts per minute
)

func (k Kind) String() string {
	switch k {
	case KindSecond:
		return "per-second"
	case KindMinute:
		return "per-minute"
	}
	return "invalid"
}

// Record is a single dated history entry.
type Record struct {
	Time  time.Time
	Kind  Kind
	Count int // CPS for per-second records, CPM for per-minute records

	// Series holds the per-second samples backing a per-minute summary
	// record. It is empty for per-second records and for per-minute
	// records reported natively by the device.
	Series []int
}
