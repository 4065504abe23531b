// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gmc-daq starts a TDAQ server publishing the counts-per-second
// stream of a GMC geiger counter on its "/cps" end-point.
package main // import "github.com/martinheinrich2/gmc500/cmd/gmc-daq"

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"os"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"

	"github.com/martinheinrich2/gmc500/gmc"
)

func main() {
	cmd := flags.New()

	dev := daq{
		addr: "/dev/ttyUSB0",
	}
	if len(cmd.Args) > 0 {
		dev.addr = cmd.Args[0]
	}

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", dev.OnConfig)
	srv.CmdHandle("/init", dev.OnInit)
	srv.CmdHandle("/reset", dev.OnReset)
	srv.CmdHandle("/start", dev.OnStart)
	srv.CmdHandle("/stop", dev.OnStop)
	srv.CmdHandle("/quit", dev.OnQuit)

	srv.OutputHandle("/cps", dev.cps)

	srv.RunHandle(dev.run)

	err := srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

type daq struct {
	addr string
	dev  *gmc.Device

	n    int
	data chan []byte
}

func (daq *daq) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")
	return nil
}

func (daq *daq) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")
	dev, err := gmc.Open(daq.addr)
	if err != nil {
		return fmt.Errorf("could not open device on %q: %w", daq.addr, err)
	}
	daq.dev = dev
	daq.data = make(chan []byte, 1024)
	daq.n = 0

	version, err := dev.Version()
	if err != nil {
		return fmt.Errorf("could not fetch hardware version: %w", err)
	}
	ctx.Msg.Infof("device: %s", version)
	return nil
}

func (daq *daq) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	daq.data = make(chan []byte, 1024)
	daq.n = 0
	return nil
}

func (daq *daq) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	return nil
}

func (daq *daq) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	n := daq.n
	ctx.Msg.Debugf("received /stop command... -> n=%d", n)
	return nil
}

func (daq *daq) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	if daq.dev != nil {
		err := daq.dev.Close()
		if err != nil {
			return fmt.Errorf("could not close device: %w", err)
		}
		daq.dev = nil
	}
	return nil
}

func (daq *daq) cps(ctx tdaq.Context, dst *tdaq.Frame) error {
	select {
	case <-ctx.Ctx.Done():
		dst.Body = nil
		return nil
	case data := <-daq.data:
		dst.Body = data
	}
	return nil
}

func (daq *daq) run(ctx tdaq.Context) error {
	if daq.dev == nil {
		return fmt.Errorf("device not initialized")
	}
	err := daq.dev.Heartbeat(ctx.Ctx, func(cps int) {
		raw := make([]byte, 4)
		binary.BigEndian.PutUint32(raw, uint32(cps))
		select {
		case daq.data <- raw:
			daq.n++
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("could not run heartbeat: %w", err)
	}
	return nil
}
