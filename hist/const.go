// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hist

// Reserved byte values of the history stream. The vendor does not document
// them; the values below follow the community GQ-RFC notes for the
// GMC-300/500 firmware families.
const (
	tsMarker   = 0x55 // date/time stamp marker, 6 clock bytes follow
	modeMarker = 0xaa // save-mode marker, discriminator byte follows
	escMarker  = 0xff // escaped count, two big-endian bytes follow

	padByte = 0xff // flash erase value, pads the unused tail
	eodLen  = 3    // run of padBytes marking end of data
)

// Save-mode discriminator values, as stored by the device configuration.
const (
	saveOff      = 0x00 // history saving disabled
	saveSecond   = 0x01 // every second
	saveMinute   = 0x02 // every minute
	saveHour     = 0x03 // every hour
	saveSecondTh = 0x04 // every second, above dose threshold
	saveMinuteTh = 0x05 // every minute, above dose threshold
)

const (
	maxCount  = 0xfffe // largest count an escape sequence can carry
	seriesLen = 60     // per-second samples backing one minute
)
