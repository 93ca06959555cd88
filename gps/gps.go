/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	gps.go: transport-facing types. A transport owns the physical link,
	feeds raw receiver bytes to the protocol session and carries command
	frames back out.
*/

package gps

import (
	"log"
	"time"
)

// ByteSink receives raw bytes from a transport; in practice this is
// Session.Receive.
type ByteSink func(data []byte)

// DeviceStatus is the per-link health record kept by the manager.
type DeviceStatus struct {
	Name          string    // Unique name, for example ublox9 or the serial port name. Used for display/logging
	Connected     bool      // True while the transport holds an open link
	LastSeen      time.Time // Last time any byte arrived on this link
	BytesReceived uint64    // Raw bytes pumped into the session
	LinesTapped   uint64    // Checksum-valid NMEA lines seen by the debug tap
	CRCErrors     uint64    // Tapped lines that failed their checksum
}

func (d *DeviceStatus) Print() {
	log.Printf("Name:%s Connected:%t bytes:%d lines:%d crcErrors:%d\r\n",
		d.Name,
		d.Connected,
		d.BytesReceived,
		d.LinesTapped,
		d.CRCErrors,
	)
}
