// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hist

import (
	"time"

	"golang.org/x/xerrors"
)

var (
	// ErrOutOfBounds means the cursor was advanced past the end of the
	// buffer. It indicates a length-accounting bug in the decoder itself.
	ErrOutOfBounds = xerrors.New("hist: cursor out of bounds")

	// ErrMalformedTimestamp means a date/time stamp carries a field
	// outside its valid calendar range.
	ErrMalformedTimestamp = xerrors.New("hist: malformed date/time stamp")

	// ErrMalformedStream means the byte stream violates the history
	// format (truncated marker, unknown save mode, accumulator overflow).
	ErrMalformedStream = xerrors.New("hist: malformed stream")

	// ErrUnexpectedData means a count byte appeared before any save-mode
	// marker established how to interpret it.
	ErrUnexpectedData = xerrors.New("hist: data before save-mode marker")

	// ErrMissingTimestamp means a record would have been emitted before
	// any date/time stamp established its date.
	ErrMissingTimestamp = xerrors.New("hist: data before date/time stamp")
)

// Decode walks the raw history buffer and reconstructs the chronologically
// ordered sequence of dated count records.
//
// Decoding stops cleanly at the end-of-data sentinel (trailing erased-flash
// padding is ignored) or at buffer exhaustion: devices with a completely
// full history region omit the sentinel. Any format violation aborts the
// pass with an error reporting the byte offset at which the stream diverges.
func Decode(buf []byte) ([]Record, error) {
	dec := decoder{cur: NewCursor(buf)}
	return dec.run()
}

// decoder is the state carried across bytes of one decode pass: the running
// date/time, the current save mode and the per-second samples of the
// in-progress minute.
type decoder struct {
	cur *Cursor

	mode    Mode
	now     time.Time
	hasTime bool
	acc     []int

	recs []Record
}

func (dec *decoder) run() ([]Record, error) {
	for {
		m, err := classify(dec.cur)
		if err != nil {
			return nil, err
		}

		switch m.kind {
		case mkEndOfData:
			dec.flush()
			return dec.recs, nil

		case mkTimestamp:
			dec.flush()
			dec.now = m.time
			dec.hasTime = true

		case mkModeSwitch:
			dec.flush()
			dec.mode = m.mode

		case mkData:
			err = dec.data(m.value)
			if err != nil {
				return nil, err
			}
		}

		err = dec.cur.Advance(m.width)
		if err != nil {
			return nil, err
		}
	}
}

func (dec *decoder) data(v int) error {
	off := dec.cur.Pos()
	if dec.mode == ModeUnknown {
		return xerrors.Errorf("hist: count 0x%02x before save-mode marker at offset %d: %w",
			v, off, ErrUnexpectedData,
		)
	}
	if !dec.hasTime {
		return xerrors.Errorf("hist: count 0x%02x before date/time stamp at offset %d: %w",
			v, off, ErrMissingTimestamp,
		)
	}

	switch dec.mode {
	case ModePerSecond:
		dec.recs = append(dec.recs, Record{Time: dec.now, Kind: KindSecond, Count: v})
		if len(dec.acc) >= seriesLen {
			return xerrors.Errorf("hist: seconds accumulator overflow at offset %d: %w",
				off, ErrMalformedStream,
			)
		}
		dec.acc = append(dec.acc, v)
		dec.now = dec.now.Add(1 * time.Second)
		if len(dec.acc) == seriesLen {
			dec.flush()
		}

	case ModePerMinute:
		dec.recs = append(dec.recs, Record{Time: dec.now, Kind: KindMinute, Count: v})
		dec.now = dec.now.Add(1 * time.Minute)
	}

	return nil
}

// flush converts pending per-second samples into a minute summary record
// carrying the samples and their CPM sum. The summary is stamped at the
// close of its window so the emitted sequence stays monotonically
// non-decreasing when per-second records and summaries interleave.
func (dec *decoder) flush() {
	if len(dec.acc) == 0 {
		return
	}

	sum := 0
	for _, v := range dec.acc {
		sum += v
	}
	series := make([]int, len(dec.acc))
	copy(series, dec.acc)

	dec.recs = append(dec.recs, Record{
		Time:   dec.now,
		Kind:   KindMinute,
		Count:  sum,
		Series: series,
	})
	dec.acc = dec.acc[:0]
}
