// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gmc

const (
	// DefaultBaudRate is the serial line rate of the GMC-300/500 family.
	DefaultBaudRate = 115200

	// FlashSize is the size of the history flash of a GMC-500+.
	FlashSize = 1 << 20

	// PageSize is the largest chunk one flash read request may return.
	PageSize = 4096
)

var (
	cmdPowerOn      = []byte("<POWERON>>")
	cmdPowerOff     = []byte("<POWEROFF>>")
	cmdGetVersion   = []byte("<GETVER>>")
	cmdGetSerial    = []byte("<GETSERIAL>>")
	cmdGetCPM       = []byte("<GETCPM>>")
	cmdGetVoltage   = []byte("<GETVOLT>>")
	cmdGetDateTime  = []byte("<GETDATETIME>>")
	cmdHeartbeatOn  = []byte("<HEARTBEAT1>>")
	cmdHeartbeatOff = []byte("<HEARTBEAT0>>")
)

// cmdReadFlash requests n bytes of history flash starting at addr:
// <SPIR[A2][A1][A0][L1][L0]>>, address and length big-endian.
func cmdReadFlash(addr, n int) []byte {
	cmd := make([]byte, 0, 12)
	cmd = append(cmd, "<SPIR"...)
	cmd = append(cmd, byte(addr>>16), byte(addr>>8), byte(addr))
	cmd = append(cmd, byte(n>>8), byte(n))
	return append(cmd, ">>"...)
}

// cmdSetDateTime sets the device clock: <SETDATETIME[YY][MM][DD][HH][MM][SS]>>.
func cmdSetDateTime(yy, mm, dd, hh, mi, ss int) []byte {
	cmd := make([]byte, 0, 20)
	cmd = append(cmd, "<SETDATETIME"...)
	cmd = append(cmd, byte(yy), byte(mm), byte(dd), byte(hh), byte(mi), byte(ss))
	return append(cmd, ">>"...)
}
