// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hist

import (
	"time"

	"golang.org/x/xerrors"
)

type markerKind uint8

const (
	mkEndOfData markerKind = iota
	mkModeSwitch
	mkTimestamp
	mkData
)

// marker is the classification of the byte sequence at a cursor position.
type marker struct {
	kind  markerKind
	width int // bytes the sequence spans

	mode  Mode      // for mkModeSwitch
	time  time.Time // for mkTimestamp
	value int       // for mkData
}

// classify inspects the bytes at the cursor position and decides what they
// are. It peeks but never advances; the decoder advances by the returned
// width. Sentinel checks run before generic data interpretation so that a
// high-valued count is never misread as a marker.
func classify(cur *Cursor) (marker, error) {
	off := cur.Pos()
	v, ok := cur.Peek(0)
	if !ok {
		return marker{kind: mkEndOfData}, nil
	}

	switch v {
	case escMarker:
		if isPadding(cur) {
			return marker{kind: mkEndOfData}, nil
		}
		hi, okh := cur.Peek(1)
		lo, okl := cur.Peek(2)
		if !okh || !okl {
			return marker{}, xerrors.Errorf("hist: truncated two-byte count at offset %d: %w",
				off, ErrMalformedStream,
			)
		}
		return marker{
			kind:  mkData,
			width: 3,
			value: int(hi)<<8 | int(lo),
		}, nil

	case modeMarker:
		d, ok := cur.Peek(1)
		if !ok {
			return marker{}, xerrors.Errorf("hist: truncated save-mode marker at offset %d: %w",
				off, ErrMalformedStream,
			)
		}
		mode, err := saveMode(d, off)
		if err != nil {
			return marker{}, err
		}
		return marker{kind: mkModeSwitch, width: 2, mode: mode}, nil

	case tsMarker:
		t, err := clock(cur, off)
		if err != nil {
			return marker{}, err
		}
		return marker{kind: mkTimestamp, width: 7, time: t}, nil
	}

	return marker{kind: mkData, width: 1, value: int(v)}, nil
}

// isPadding reports whether the cursor sits on the end-of-data sentinel:
// a run of eodLen padding bytes, or a shorter run of them reaching the
// exact end of the buffer (erased flash).
func isPadding(cur *Cursor) bool {
	n := cur.Remaining()
	if n > eodLen {
		n = eodLen
	}
	for i := 0; i < n; i++ {
		v, _ := cur.Peek(i)
		if v != padByte {
			return false
		}
	}
	return true
}

func saveMode(d byte, off int) (Mode, error) {
	switch d {
	case saveSecond, saveSecondTh:
		return ModePerSecond, nil
	case saveMinute, saveMinuteTh:
		return ModePerMinute, nil
	case saveOff, saveHour:
		return ModeUnknown, xerrors.Errorf("hist: unsupported save mode 0x%02x at offset %d: %w",
			d, off, ErrMalformedStream,
		)
	}
	return ModeUnknown, xerrors.Errorf("hist: unknown save mode 0x%02x at offset %d: %w",
		d, off, ErrMalformedStream,
	)
}

// clock reads the 6 clock bytes following a date/time stamp marker:
// year (2000-offset), month, day, hour, minute, second.
func clock(cur *Cursor, off int) (time.Time, error) {
	var p [6]byte
	for i := range p {
		v, ok := cur.Peek(1 + i)
		if !ok {
			return time.Time{}, xerrors.Errorf("hist: truncated date/time stamp at offset %d: %w",
				off, ErrMalformedTimestamp,
			)
		}
		p[i] = v
	}

	var (
		yy = int(p[0])
		mm = int(p[1])
		dd = int(p[2])
		hh = int(p[3])
		mi = int(p[4])
		ss = int(p[5])
	)
	switch {
	case yy > 99,
		mm < 1, mm > 12,
		dd < 1, dd > 31,
		hh > 23,
		mi > 59,
		ss > 59:
		return time.Time{}, xerrors.Errorf(
			"hist: invalid date/time %02d-%02d-%02d %02d:%02d:%02d at offset %d: %w",
			yy, mm, dd, hh, mi, ss, off, ErrMalformedTimestamp,
		)
	}

	return time.Date(2000+yy, time.Month(mm), dd, hh, mi, ss, 0, time.UTC), nil
}
