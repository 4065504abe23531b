// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gmc drives GQ GMC geiger counters over their serial command
// protocol.
package gmc // import "github.com/martinheinrich2/gmc500/gmc"

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"
)

type serialPort interface {
	io.Reader
	io.Writer
	io.Closer

	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

var (
	serialOpen = serialOpenImpl
)

func serialOpenImpl(name string) (serialPort, error) {
	mode := &serial.Mode{
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	return port, err
}

// Device is a handle to a GMC geiger counter attached to a serial port.
// A Device serializes one command/reply exchange at a time and is not safe
// for concurrent use.
type Device struct {
	name string
	port serialPort
}

// Open opens the geiger counter attached to the named serial port.
func Open(name string) (*Device, error) {
	port, err := serialOpen(name)
	if err != nil {
		return nil, fmt.Errorf("gmc: could not open serial port %q: %w", name, err)
	}

	dev := &Device{name: name, port: port}
	err = dev.init()
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("gmc: could not initialize device on %q: %w", name, err)
	}

	return dev, nil
}

func (dev *Device) init() error {
	err := dev.port.SetReadTimeout(1 * time.Second)
	if err != nil {
		return fmt.Errorf("could not set read timeout: %w", err)
	}

	err = dev.port.ResetInputBuffer()
	if err != nil {
		return fmt.Errorf("could not drain input buffer: %w", err)
	}

	return nil
}

// Name returns the name of the underlying serial port.
func (dev *Device) Name() string { return dev.name }

func (dev *Device) Close() error {
	return dev.port.Close()
}

// send writes cmd to the device and reads back an n-byte reply.
func (dev *Device) send(cmd []byte, n int) ([]byte, error) {
	_, err := dev.port.Write(cmd)
	if err != nil {
		return nil, fmt.Errorf("gmc: could not send command %q: %w", cmd, err)
	}
	if n == 0 {
		return nil, nil
	}

	p := make([]byte, n)
	_, err = io.ReadFull(dev.port, p)
	if err != nil {
		return nil, fmt.Errorf("gmc: could not read %d-byte reply to %q: %w", n, cmd, err)
	}
	return p, nil
}

// Version returns the device model and firmware version.
func (dev *Device) Version() (string, error) {
	p, err := dev.send(cmdGetVersion, 15)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(p), "\x00 "), nil
}

// SerialNumber returns the device serial number, hex-encoded.
func (dev *Device) SerialNumber() (string, error) {
	p, err := dev.send(cmdGetSerial, 7)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%X", p), nil
}

// CPM returns the current counts-per-minute reading.
func (dev *Device) CPM() (int, error) {
	p, err := dev.send(cmdGetCPM, 4)
	if err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint32(p)), nil
}

// Voltage returns the battery voltage as reported by the device, e.g. "4.8v".
func (dev *Device) Voltage() (string, error) {
	p, err := dev.send(cmdGetVoltage, 5)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(p)), nil
}

// DateTime returns the device clock.
func (dev *Device) DateTime() (time.Time, error) {
	p, err := dev.send(cmdGetDateTime, 7)
	if err != nil {
		return time.Time{}, err
	}
	if p[6] != 0xaa {
		return time.Time{}, fmt.Errorf("gmc: invalid date/time trailer (got=0x%02x, want=0xaa)", p[6])
	}
	return time.Date(
		2000+int(p[0]), time.Month(p[1]), int(p[2]),
		int(p[3]), int(p[4]), int(p[5]),
		0, time.Local,
	), nil
}

// SetDateTime sets the device clock to t.
func (dev *Device) SetDateTime(t time.Time) error {
	p, err := dev.send(cmdSetDateTime(
		t.Year()-2000, int(t.Month()), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
	), 1)
	if err != nil {
		return err
	}
	if p[0] != 0xaa {
		return fmt.Errorf("gmc: device did not acknowledge clock update (got=0x%02x)", p[0])
	}
	return nil
}

// PowerOn powers up the device.
func (dev *Device) PowerOn() error {
	_, err := dev.send(cmdPowerOn, 0)
	return err
}

// PowerOff powers down the device.
func (dev *Device) PowerOff() error {
	_, err := dev.send(cmdPowerOff, 0)
	return err
}

// ReadHistory reads the whole history flash, page by page.
// The returned buffer is suitable for hist.Decode.
func (dev *Device) ReadHistory(ctx context.Context) ([]byte, error) {
	buf := make([]byte, 0, FlashSize)
	for addr := 0; addr < FlashSize; addr += PageSize {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page, err := dev.send(cmdReadFlash(addr, PageSize), PageSize)
		if err != nil {
			return nil, fmt.Errorf("gmc: could not read flash page at 0x%06x: %w", addr, err)
		}
		buf = append(buf, page...)
	}
	return buf, nil
}

// Heartbeat switches the device into heartbeat mode and calls f with every
// per-second count it pushes, until ctx is done.
func (dev *Device) Heartbeat(ctx context.Context, f func(cps int)) error {
	_, err := dev.send(cmdHeartbeatOn, 0)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = dev.send(cmdHeartbeatOff, 0)
		_ = dev.port.ResetInputBuffer()
	}()

	p := make([]byte, 4)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, err := io.ReadFull(dev.port, p)
		if err != nil {
			return fmt.Errorf("gmc: could not read heartbeat sample: %w", err)
		}
		f(int(binary.BigEndian.Uint32(p)))
	}
}
