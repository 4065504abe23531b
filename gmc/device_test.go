// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gmc

import (
	"bytes"
	"context"
	"reflect"
	"testing"
	"time"
)

// fakePort scripts command/reply exchanges of a GMC-500+.
type fakePort struct {
	reply func(cmd []byte) []byte

	rbuf   bytes.Buffer
	cmds   [][]byte
	closed bool
}

func (p *fakePort) Write(cmd []byte) (int, error) {
	c := make([]byte, len(cmd))
	copy(c, cmd)
	p.cmds = append(p.cmds, c)
	if p.reply != nil {
		p.rbuf.Write(p.reply(cmd))
	}
	return len(cmd), nil
}

func (p *fakePort) Read(b []byte) (int, error)           { return p.rbuf.Read(b) }
func (p *fakePort) Close() error                         { p.closed = true; return nil }
func (p *fakePort) SetReadTimeout(t time.Duration) error { return nil }
func (p *fakePort) ResetInputBuffer() error              { p.rbuf.Reset(); return nil }

func withFakePort(t *testing.T, reply func(cmd []byte) []byte) (*Device, *fakePort) {
	t.Helper()

	port := &fakePort{reply: reply}
	serialOpen = func(name string) (serialPort, error) { return port, nil }
	t.Cleanup(func() { serialOpen = serialOpenImpl })

	dev, err := Open("/dev/ttyUSB0")
	if err != nil {
		t.Fatalf("could not open device: %+v", err)
	}
	return dev, port
}

func TestDeviceCommands(t *testing.T) {
	dev, port := withFakePort(t, func(cmd []byte) []byte {
		switch string(cmd) {
		case "<GETVER>>":
			return []byte("GMC-500+Re 2.40")
		case "<GETSERIAL>>":
			return []byte{0xf4, 0x88, 0x00, 0x39, 0x34, 0x76, 0x26}
		case "<GETCPM>>":
			return []byte{0x00, 0x00, 0x01, 0x2c}
		case "<GETVOLT>>":
			return []byte("4.8v ")
		case "<GETDATETIME>>":
			return []byte{24, 1, 2, 13, 37, 59, 0xaa}
		}
		return nil
	})
	defer dev.Close()

	ver, err := dev.Version()
	if err != nil {
		t.Fatalf("could not get version: %+v", err)
	}
	if got, want := ver, "GMC-500+Re 2.40"; got != want {
		t.Errorf("invalid version: got=%q, want=%q", got, want)
	}

	sn, err := dev.SerialNumber()
	if err != nil {
		t.Fatalf("could not get serial number: %+v", err)
	}
	if got, want := sn, "F4880039347626"; got != want {
		t.Errorf("invalid serial number: got=%q, want=%q", got, want)
	}

	cpm, err := dev.CPM()
	if err != nil {
		t.Fatalf("could not get CPM: %+v", err)
	}
	if got, want := cpm, 300; got != want {
		t.Errorf("invalid CPM: got=%d, want=%d", got, want)
	}

	volt, err := dev.Voltage()
	if err != nil {
		t.Fatalf("could not get voltage: %+v", err)
	}
	if got, want := volt, "4.8v"; got != want {
		t.Errorf("invalid voltage: got=%q, want=%q", got, want)
	}

	clk, err := dev.DateTime()
	if err != nil {
		t.Fatalf("could not get date/time: %+v", err)
	}
	want := time.Date(2024, time.January, 2, 13, 37, 59, 0, time.Local)
	if !clk.Equal(want) {
		t.Errorf("invalid date/time: got=%v, want=%v", clk, want)
	}

	err = dev.PowerOff()
	if err != nil {
		t.Fatalf("could not power off: %+v", err)
	}
	if got, want := string(port.cmds[len(port.cmds)-1]), "<POWEROFF>>"; got != want {
		t.Errorf("invalid power-off command: got=%q, want=%q", got, want)
	}
}

func TestDeviceSetDateTime(t *testing.T) {
	dev, port := withFakePort(t, func(cmd []byte) []byte {
		if bytes.HasPrefix(cmd, []byte("<SETDATETIME")) {
			return []byte{0xaa}
		}
		return nil
	})
	defer dev.Close()

	err := dev.SetDateTime(time.Date(2024, time.January, 2, 13, 37, 59, 0, time.Local))
	if err != nil {
		t.Fatalf("could not set date/time: %+v", err)
	}

	want := append([]byte("<SETDATETIME"), 24, 1, 2, 13, 37, 59, '>', '>')
	if got := port.cmds[len(port.cmds)-1]; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid command:\ngot= %q\nwant=%q", got, want)
	}
}

func TestDeviceSetDateTimeNack(t *testing.T) {
	dev, _ := withFakePort(t, func(cmd []byte) []byte {
		if bytes.HasPrefix(cmd, []byte("<SETDATETIME")) {
			return []byte{0x00}
		}
		return nil
	})
	defer dev.Close()

	err := dev.SetDateTime(time.Now())
	if err == nil {
		t.Fatalf("unacknowledged clock update did not fail")
	}
}

func TestDeviceReadHistory(t *testing.T) {
	dev, port := withFakePort(t, func(cmd []byte) []byte {
		if bytes.HasPrefix(cmd, []byte("<SPIR")) {
			return bytes.Repeat([]byte{0xff}, PageSize)
		}
		return nil
	})
	defer dev.Close()

	buf, err := dev.ReadHistory(context.Background())
	if err != nil {
		t.Fatalf("could not read history: %+v", err)
	}
	if got, want := len(buf), FlashSize; got != want {
		t.Fatalf("invalid history size: got=%d, want=%d", got, want)
	}
	if got, want := len(port.cmds), FlashSize/PageSize; got != want {
		t.Fatalf("invalid number of flash reads: got=%d, want=%d", got, want)
	}

	first := port.cmds[0]
	want := append([]byte("<SPIR"), 0x00, 0x00, 0x00, 0x10, 0x00, '>', '>')
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("invalid first flash read:\ngot= %q\nwant=%q", first, want)
	}
}

func TestDeviceReadHistoryCancel(t *testing.T) {
	dev, _ := withFakePort(t, func(cmd []byte) []byte {
		if bytes.HasPrefix(cmd, []byte("<SPIR")) {
			return bytes.Repeat([]byte{0xff}, PageSize)
		}
		return nil
	})
	defer dev.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dev.ReadHistory(ctx)
	if err == nil {
		t.Fatalf("canceled history read did not fail")
	}
}

func TestDeviceHeartbeat(t *testing.T) {
	dev, _ := withFakePort(t, func(cmd []byte) []byte {
		if string(cmd) == "<HEARTBEAT1>>" {
			return []byte{
				0x00, 0x00, 0x00, 0x02,
				0x00, 0x00, 0x00, 0x03,
				0x00, 0x00, 0x01, 0xf4,
			}
		}
		return nil
	})
	defer dev.Close()

	ctx, cancel := context.WithCancel(context.Background())

	var got []int
	err := dev.Heartbeat(ctx, func(cps int) {
		got = append(got, cps)
		if len(got) == 3 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("could not run heartbeat: %+v", err)
	}
	if want := []int{2, 3, 500}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid heartbeat samples: got=%v, want=%v", got, want)
	}
}
