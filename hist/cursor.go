// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hist

import (
	"golang.org/x/xerrors"
)

// Cursor is a sequential reader over a raw history buffer.
// A Cursor is driven by exactly one decode pass and is not safe for
// concurrent use.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of buf.
// The cursor borrows buf for the duration of the decode pass.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Peek returns the byte off positions past the cursor without advancing.
// The second return value is false when the requested position is past
// the end of the buffer.
func (cur *Cursor) Peek(off int) (byte, bool) {
	i := cur.pos + off
	if i >= len(cur.buf) {
		return 0, false
	}
	return cur.buf[i], true
}

// Advance moves the cursor n bytes forward.
func (cur *Cursor) Advance(n int) error {
	if cur.pos+n > len(cur.buf) {
		return xerrors.Errorf("hist: could not advance cursor by %d (pos=%d, len=%d): %w",
			n, cur.pos, len(cur.buf), ErrOutOfBounds,
		)
	}
	cur.pos += n
	return nil
}

// Pos returns the current byte offset into the buffer.
func (cur *Cursor) Pos() int { return cur.pos }

// Remaining returns the number of unread bytes.
func (cur *Cursor) Remaining() int { return len(cur.buf) - cur.pos }
