// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hist

import (
	"fmt"
	"io"
	"time"
)

// Encoder writes history data to an output stream, in the on-flash format
// Decode understands. It is the write-side counterpart of the decoder,
// used to build device-like history buffers.
type Encoder struct {
	w   io.Writer
	buf []byte
	err error
}

// NewEncoder returns a new Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:   w,
		buf: make([]byte, 8),
	}
}

// Timestamp writes a date/time stamp marker for t.
func (enc *Encoder) Timestamp(t time.Time) error {
	t = t.UTC()
	if y := t.Year(); y < 2000 || y > 2099 {
		return fmt.Errorf("hist: year %d out of range for date/time stamp", y)
	}
	enc.writeU8(tsMarker)
	enc.writeU8(uint8(t.Year() - 2000))
	enc.writeU8(uint8(t.Month()))
	enc.writeU8(uint8(t.Day()))
	enc.writeU8(uint8(t.Hour()))
	enc.writeU8(uint8(t.Minute()))
	enc.writeU8(uint8(t.Second()))
	if enc.err != nil {
		return fmt.Errorf("hist: could not write date/time stamp: %w", enc.err)
	}
	return nil
}

// SaveMode writes a save-mode marker for mode.
func (enc *Encoder) SaveMode(mode Mode) error {
	var d uint8
	switch mode {
	case ModePerSecond:
		d = saveSecond
	case ModePerMinute:
		d = saveMinute
	default:
		return fmt.Errorf("hist: can not encode save mode %v", mode)
	}
	enc.writeU8(modeMarker)
	enc.writeU8(d)
	if enc.err != nil {
		return fmt.Errorf("hist: could not write save-mode marker: %w", enc.err)
	}
	return nil
}

// Count writes a count value, escaping it into a two-byte sequence when it
// exceeds one byte or collides with a reserved marker value.
func (enc *Encoder) Count(v int) error {
	if v < 0 || v > maxCount {
		return fmt.Errorf("hist: count %d out of range [0, %d]", v, maxCount)
	}
	switch {
	case v < escMarker && v != tsMarker && v != modeMarker:
		enc.writeU8(uint8(v))
	default:
		enc.writeU8(escMarker)
		enc.writeU8(uint8(v >> 8))
		enc.writeU8(uint8(v))
	}
	if enc.err != nil {
		return fmt.Errorf("hist: could not write count: %w", enc.err)
	}
	return nil
}

// EndOfData writes the end-of-data sentinel.
func (enc *Encoder) EndOfData() error {
	for i := 0; i < eodLen; i++ {
		enc.writeU8(padByte)
	}
	if enc.err != nil {
		return fmt.Errorf("hist: could not write end-of-data sentinel: %w", enc.err)
	}
	return nil
}

func (enc *Encoder) write(p []byte) {
	if enc.err != nil {
		return
	}
	_, enc.err = enc.w.Write(p)
}

func (enc *Encoder) writeU8(v uint8) {
	const n = 1
	enc.buf[0] = v
	enc.write(enc.buf[:n])
}
