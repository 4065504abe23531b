// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gmc-ctl sends a command to a GMC geiger counter and displays
// the reply.
//
// Usage: gmc-ctl [OPTIONS] COMMAND
//
// ex:
//
//	$> gmc-ctl -addr=/dev/ttyUSB0 version
//	GMC-500+Re 2.40
//	$> gmc-ctl cpm
//	23
//	$> gmc-ctl -i
//	gmc> voltage
//	4.8v
//	gmc> quit
//
// Known commands are: version, serial, cpm, voltage, datetime, sync,
// power-on and power-off. sync sets the device clock to the host clock.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/martinheinrich2/gmc500/gmc"
)

func main() {
	log.SetPrefix("gmc-ctl: ")
	log.SetFlags(0)

	var (
		addr = flag.String("addr", "/dev/ttyUSB0", "serial port the geiger counter is attached to")
		ish  = flag.Bool("i", false, "run an interactive command shell")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: gmc-ctl [OPTIONS] COMMAND

ex:
 $> gmc-ctl -addr=/dev/ttyUSB0 version
 $> gmc-ctl cpm
 $> gmc-ctl -i

commands:
 version    display the hardware model and firmware revision
 serial     display the device serial number
 cpm        display the current counts-per-minute value
 voltage    display the battery voltage status
 datetime   display the on-device date and time
 sync       set the on-device date and time to the host clock
 power-on   power the device on
 power-off  power the device off

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	dev, err := gmc.Open(*addr)
	if err != nil {
		log.Fatalf("could not open device: %+v", err)
	}
	defer dev.Close()

	switch {
	case *ish:
		err = shell(dev)
	default:
		if flag.NArg() != 1 {
			flag.Usage()
			log.Fatalf("missing command")
		}
		err = run(os.Stdout, dev, flag.Arg(0))
	}
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(w io.Writer, dev *gmc.Device, cmd string) error {
	switch cmd {
	case "version":
		v, err := dev.Version()
		if err != nil {
			return fmt.Errorf("could not fetch hardware version: %w", err)
		}
		fmt.Fprintf(w, "%s\n", v)
	case "serial":
		v, err := dev.SerialNumber()
		if err != nil {
			return fmt.Errorf("could not fetch serial number: %w", err)
		}
		fmt.Fprintf(w, "%s\n", v)
	case "cpm":
		v, err := dev.CPM()
		if err != nil {
			return fmt.Errorf("could not fetch CPM: %w", err)
		}
		fmt.Fprintf(w, "%d\n", v)
	case "voltage":
		v, err := dev.Voltage()
		if err != nil {
			return fmt.Errorf("could not fetch battery voltage: %w", err)
		}
		fmt.Fprintf(w, "%s\n", v)
	case "datetime":
		v, err := dev.DateTime()
		if err != nil {
			return fmt.Errorf("could not fetch device date/time: %w", err)
		}
		fmt.Fprintf(w, "%s\n", v.Format("2006-01-02 15:04:05"))
	case "sync":
		now := time.Now()
		err := dev.SetDateTime(now)
		if err != nil {
			return fmt.Errorf("could not set device date/time: %w", err)
		}
		fmt.Fprintf(w, "device clock set to %s\n", now.Format("2006-01-02 15:04:05"))
	case "power-on":
		err := dev.PowerOn()
		if err != nil {
			return fmt.Errorf("could not power on device: %w", err)
		}
	case "power-off":
		err := dev.PowerOff()
		if err != nil {
			return fmt.Errorf("could not power off device: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

var shellCmds = []string{
	"version", "serial", "cpm", "voltage", "datetime", "sync",
	"power-on", "power-off", "quit",
}

func shell(dev *gmc.Device) error {
	term := liner.NewLiner()
	defer term.Close()

	term.SetCtrlCAborts(true)
	term.SetCompleter(func(line string) []string {
		var o []string
		for _, cmd := range shellCmds {
			if strings.HasPrefix(cmd, strings.ToLower(line)) {
				o = append(o, cmd)
			}
		}
		return o
	})

	for {
		line, err := term.Prompt("gmc> ")
		switch err {
		case nil:
			// ok
		case io.EOF, liner.ErrPromptAborted:
			fmt.Printf("\n")
			return nil
		default:
			return fmt.Errorf("could not read command: %w", err)
		}

		cmd := strings.TrimSpace(line)
		if cmd == "" {
			continue
		}
		term.AppendHistory(cmd)
		if cmd == "quit" {
			return nil
		}

		err = run(os.Stdout, dev, cmd)
		if err != nil {
			log.Printf("%+v", err)
		}
	}
}
