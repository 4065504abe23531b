// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gmc-hist downloads the history flash memory of a GMC geiger
// counter and saves it to a local file.
//
// Usage: gmc-hist [OPTIONS]
//
// ex:
//
//	$> gmc-hist -addr=/dev/ttyUSB0
//	gmc-hist: device: GMC-500+Re 2.40
//	gmc-hist: downloading 1048576 bytes...
//	gmc-hist: output: GMC-500-History-20240101_00_00_00.bin
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/martinheinrich2/gmc500/gmc"
)

func main() {
	log.SetPrefix("gmc-hist: ")
	log.SetFlags(0)

	var (
		addr  = flag.String("addr", "/dev/ttyUSB0", "serial port the geiger counter is attached to")
		oname = flag.String("o", "", "path to output history file (default: GMC-500-History-<timestamp>.bin)")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: gmc-hist [OPTIONS]

ex:
 $> gmc-hist -addr=/dev/ttyUSB0 -o hist.bin

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	out := *oname
	if out == "" {
		out = "GMC-500-History-" + time.Now().Format("20060102_15_04_05") + ".bin"
	}

	err := xmain(out, *addr)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	log.Printf("output: %s", out)
}

func xmain(oname, addr string) error {
	dev, err := gmc.Open(addr)
	if err != nil {
		return fmt.Errorf("could not open device: %w", err)
	}
	defer dev.Close()

	version, err := dev.Version()
	if err != nil {
		return fmt.Errorf("could not fetch hardware version: %w", err)
	}
	log.Printf("device: %s", version)

	log.Printf("downloading %d bytes...", gmc.FlashSize)
	raw, err := dev.ReadHistory(context.Background())
	if err != nil {
		return fmt.Errorf("could not read history memory: %w", err)
	}

	err = os.WriteFile(oname, raw, 0644)
	if err != nil {
		return fmt.Errorf("could not save history to %q: %w", oname, err)
	}

	err = dev.Close()
	if err != nil {
		return fmt.Errorf("could not close device: %w", err)
	}
	return nil
}
