/*
	Copyright (c) 2015-2016 Christopher Young,
	Copyright (c) 2022 Refactored R. van Twisk
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	serialdevice.go: UART transport. Scans the configured baud rates
	until checksum-valid NMEA appears, then pumps raw bytes into the
	session and carries command frames out through a rate-limited writer.
	The writer's completion callback is the session's send-done signal.
*/

package gps

import (
	"errors"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/b3nn0/gnss-receiver/common"
	"github.com/tarm/serial"
	"go.uber.org/ratelimit"
)

type txJob struct {
	data []byte
	done func()
}

type SerialDevice struct {
	Name  string
	DEBUG bool

	portPath  string
	baudRates []int

	port    *serial.Port
	baud    int
	txCh    chan txJob
	eh      *common.ExitHelper
	bytesRx uint64
}

func NewSerialDevice(name, portPath string, baudRates []int, debug bool) *SerialDevice {
	return &SerialDevice{
		Name:      name,
		DEBUG:     debug,
		portPath:  portPath,
		baudRates: baudRates,
		txCh:      make(chan txJob, 10),
		eh:        common.NewExitHelper(),
	}
}

// detectAndOpen tries the candidate baud rates in order and keeps the
// first port that yields a checksum-valid NMEA line.
func (d *SerialDevice) detectAndOpen() (*serial.Port, int) {
	rl := ratelimit.New(1, ratelimit.Per(2*time.Second))
	for _, baud := range d.baudRates {
		// test if serial port exists on OS level
		if _, err := os.Stat(d.portPath); err != nil {
			continue
		}

		rl.Take()

		serialConfig := serial.Config{Name: d.portPath, Baud: baud, ReadTimeout: time.Millisecond * 2500}
		p, err := serial.OpenPort(&serialConfig)
		if err != nil {
			continue
		}

		buffer := make([]byte, 10000)
		n, err := p.Read(buffer)
		if n != 0 && err == nil {
			for _, line := range splitLines(buffer[:n]) {
				if _, ok := common.ValidateNMEAChecksum(line); ok {
					log.Printf("Detected serial port %s with baud %d", d.portPath, baud)
					return p, baud
				}
			}
		}
		p.Close()
	}
	return nil, 0
}

func splitLines(data []byte) []string {
	lines := make([]string, 0, 8)
	start := -1
	for i, c := range data {
		switch c {
		case '$':
			start = i
		case '\n', '\r':
			if start >= 0 && i > start {
				lines = append(lines, string(data[start:i]))
			}
			start = -1
		}
	}
	return lines
}

// Open connects to the receiver. The session's baud handshake may move
// the receiver off the detected rate; Reopen picks it up again.
func (d *SerialDevice) Open() error {
	port, baud := d.detectAndOpen()
	if port == nil {
		return errors.New("no GNSS receiver detected on " + d.portPath)
	}
	d.port = port
	d.baud = baud
	return nil
}

// Reopen closes and re-detects the port, for use after the baud-rate
// handshake reconfigured the receiver's UART.
func (d *SerialDevice) Reopen() error {
	if d.port != nil {
		d.port.Close()
		d.port = nil
	}
	return d.Open()
}

// Baud reports the detected line rate.
func (d *SerialDevice) Baud() int {
	return d.baud
}

// BytesReceived reports the raw byte count pumped into the sink.
func (d *SerialDevice) BytesReceived() uint64 {
	return atomic.LoadUint64(&d.bytesRx)
}

// Send implements the session's send primitive: enqueue the frame for
// the writer goroutine and signal completion once it left the port.
func (d *SerialDevice) Send(data []byte, done func()) {
	select {
	case d.txCh <- txJob{data: data, done: done}:
	default:
		log.Printf("serialDevice %s: TX queue full, dropping frame", d.Name)
		if done != nil {
			done()
		}
	}
}

// Run pumps bytes into the sink until the port dies or Stop is called.
func (d *SerialDevice) Run(sink ByteSink) {
	d.eh.Add()
	defer d.eh.Done()

	go func() {
		<-d.eh.C
		if d.port != nil {
			d.port.Close()
		}
	}()

	// We use a private ExitHelper for the local writer because when the
	// reader stops we also want the writer to quit.
	localQh := common.NewExitHelper()
	defer localQh.Exit()

	serialWriter := func() {
		localQh.Add()
		defer localQh.Done()
		// Rate limited; we never need to push command frames faster
		// than this and a slow receiver UART must not be flooded.
		rl := ratelimit.New(4, ratelimit.Per(1*time.Second))
		for {
			select {
			case <-localQh.C:
				return
			case job := <-d.txCh:
				rl.Take()
				d.port.Write(job.data)
				d.port.Flush()
				if job.done != nil {
					job.done()
				}
			}
		}
	}
	go serialWriter()

	buffer := make([]byte, 2048)
	i := 0 // debug monitor
	for {
		n, err := d.port.Read(buffer)
		if d.eh.IsExit() {
			return
		}
		if err != nil && n == 0 {
			log.Printf("serialDevice %s: read failed: %v", d.Name, err)
			return
		}

		i++
		if d.DEBUG && i%100 == 0 {
			log.Printf("reader loop iteration i=%d\n", i) // debug monitor
		}

		if n > 0 {
			atomic.AddUint64(&d.bytesRx, uint64(n))
			sink(buffer[:n])
		}
	}
}

/**
Request to stop the reader/writer and close the port
*/
func (d *SerialDevice) Stop() {
	log.Printf("Stopping serial device %s", d.Name)
	d.eh.Exit()
	log.Printf("... serial device %s stopped", d.Name)
}
