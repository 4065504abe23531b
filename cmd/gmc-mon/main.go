// Copyright 2024 The gmc500 Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gmc-mon puts a GMC geiger counter in heartbeat mode and monitors
// the stream of counts-per-second samples it emits.
//
// Samples may be logged to a MySQL database, and a mail alert is sent when
// the counts-per-minute rate, computed over a sliding window of the last 60
// samples, exceeds a configurable threshold.
//
// Usage: gmc-mon [OPTIONS]
//
// ex:
//
//	$> gmc-mon -addr=/dev/ttyUSB0 -db=gmc -threshold=100
//	gmc-mon: device: GMC-500+Re 2.40
//	gmc-mon: cps=  2 cpm= 23
//	gmc-mon: cps=  1 cpm= 24
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/sbinet/pmon"
	"golang.org/x/sync/errgroup"
	mail "gopkg.in/gomail.v2"

	"github.com/martinheinrich2/gmc500/gmc"
	"github.com/martinheinrich2/gmc500/logdb"
)

func main() {
	log.SetPrefix("gmc-mon: ")
	log.SetFlags(0)

	var (
		addr      = flag.String("addr", "/dev/ttyUSB0", "serial port the geiger counter is attached to")
		dbname    = flag.String("db", "", "name of the MySQL database to log samples to (empty: disabled)")
		threshold = flag.Int("threshold", 0, "CPM threshold for mail alerts (0: disabled)")
		doMon     = flag.Bool("pmon", false, "enable process self-monitoring")
		freq      = flag.Duration("freq", 30*time.Second, "self-monitoring probe interval")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: gmc-mon [OPTIONS]

ex:
 $> gmc-mon -addr=/dev/ttyUSB0 -db=gmc -threshold=100

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *doMon {
		p, err := pmon.Monitor(os.Getpid())
		if err != nil {
			log.Fatalf("could not start self-monitoring: %+v", err)
		}
		f, err := os.Create("gmc-mon-pmon.log")
		if err != nil {
			log.Fatalf("could not create self-monitoring log file: %+v", err)
		}
		defer f.Close()
		p.W = f
		p.Freq = *freq

		go func() {
			err := p.Run()
			if err != nil {
				log.Printf("could not run self-monitoring: %+v", err)
			}
		}()
		defer func() {
			err := p.Kill()
			if err != nil {
				log.Printf("could not stop self-monitoring: %+v", err)
			}
		}()
	}

	err := xmain(ctx, *addr, *dbname, *threshold)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func xmain(ctx context.Context, addr, dbname string, threshold int) error {
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

	serial, err := dev.SerialNumber()
	if err != nil {
		return fmt.Errorf("could not fetch serial number: %w", err)
	}

	var db *logdb.DB
	if dbname != "" {
		db, err = logdb.Open(dbname)
		if err != nil {
			return fmt.Errorf("could not open database %q: %w", dbname, err)
		}
		defer db.Close()
	}

	mon := &monitor{
		device:    serial,
		db:        db,
		threshold: threshold,
		samples:   make(chan sample, 60),
	}

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		defer close(mon.samples)
		err := dev.Heartbeat(ctx, func(cps int) {
			select {
			case mon.samples <- sample{time.Now(), cps}:
			case <-ctx.Done():
			}
		})
		if err != nil {
			return fmt.Errorf("could not run heartbeat: %w", err)
		}
		return nil
	})
	grp.Go(func() error {
		return mon.run(ctx)
	})

	return grp.Wait()
}

type sample struct {
	t   time.Time
	cps int
}

type monitor struct {
	device    string
	db        *logdb.DB
	threshold int

	samples chan sample
	win     []int // sliding window of the last 60 CPS samples
	n       int   // total number of samples seen
	alerted time.Time
}

func (mon *monitor) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case smpl, ok := <-mon.samples:
			if !ok {
				return nil
			}
			err := mon.process(ctx, smpl)
			if err != nil {
				return err
			}
		}
	}
}

func (mon *monitor) process(ctx context.Context, smpl sample) error {
	mon.n++
	mon.win = append(mon.win, smpl.cps)
	if len(mon.win) > 60 {
		mon.win = mon.win[1:]
	}
	cpm := 0
	for _, v := range mon.win {
		cpm += v
	}
	log.Printf("cps=%3d cpm=%3d", smpl.cps, cpm)

	if mon.db != nil && len(mon.win) == 60 && mon.n%60 == 0 {
		err := mon.db.InsertReading(ctx, mon.device, smpl.t, cpm)
		if err != nil {
			return fmt.Errorf("could not log sample to db: %w", err)
		}
	}

	if mon.threshold > 0 && len(mon.win) == 60 && cpm > mon.threshold {
		mon.alert(cpm)
	}
	return nil
}

func (mon *monitor) alert(cpm int) {
	const cooldown = 15 * time.Minute
	now := time.Now()
	if now.Sub(mon.alerted) < cooldown {
		return
	}
	mon.alerted = now
	log.Printf("CPM threshold exceeded: cpm=%d threshold=%d", cpm, mon.threshold)
	mon.alertMail(cpm)
}

var (
	alertMailUsr  = os.Getenv("MAIL_USERNAME")
	alertMailPwd  = os.Getenv("MAIL_PASSWORD")
	alertMailSrv  = os.Getenv("MAIL_SERVER")
	alertMailPort = atoi(os.Getenv("MAIL_PORT"))
	alertMailTgts = strings.Split(os.Getenv("MAIL_TGTS"), ",")
)

func (mon *monitor) alertMail(cpm int) {
	if alertMailUsr == "" || alertMailPwd == "" ||
		alertMailSrv == "" || alertMailPort == 0 ||
		len(alertMailTgts) == 0 {
		log.Printf("could not send mail alert: missing credentials")
		return
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", alertMailUsr)
	msg.SetHeader("Bcc", alertMailTgts...)
	msg.SetHeader("Subject", fmt.Sprintf("[gmc-mon] radiation alert: device %s", mon.device))
	msg.SetBody("text/plain", fmt.Sprintf("device: %s\ncpm: %d\nthreshold: %d",
		mon.device, cpm, mon.threshold,
	))

	dial := mail.NewDialer(alertMailSrv, alertMailPort, alertMailUsr, alertMailPwd)
	dial.TLSConfig = &tls.Config{
		InsecureSkipVerify: true,
	}
	err := dial.DialAndSend(msg)
	if err != nil {
		log.Printf("could not send mail alert: %+v", err)
	}
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("could not parse %q: %+v", s, err)
		return 0
	}
	return v
}
