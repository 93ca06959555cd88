/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	manager.go: receiver manager. Owns the protocol session, tracks link
	health, keeps the latest fix snapshot for the web/MQTT consumers and
	taps passthrough NMEA sentences the core does not consume.
*/

package main

import (
	"log"
	"strings"
	"sync"
	"time"

	nmea "github.com/adrianmo/go-nmea"
	"github.com/b3nn0/gnss-receiver/common"
	"github.com/b3nn0/gnss-receiver/gnss"
	"github.com/b3nn0/gnss-receiver/gps"
	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/exp/slices"
)

const RX_WATCHDOG_TIME = 8000 * time.Millisecond // Dead-air threshold before we report the link stalled

// NMEA sentence types the core framer does not consume but that are
// still worth decoding for the status log.
func tappedNMEATypes() []string {
	return []string{"VTG", "GLL", "ZDA", "TXT"}
}

// Situation is the latest fused state, as served to MQTT and the web.
type Situation struct {
	Location      gnss.Location   `json:"location"`
	Satellites    gnss.Satellites `json:"satellites"`
	NACp          uint8           `json:"nacp"`
	LocationTime  time.Time       `json:"location_time"`
	SatelliteTime time.Time       `json:"satellite_time"`
}

type Manager struct {
	session *gnss.Session

	mu        sync.RWMutex
	situation Situation

	deviceStatus cmap.ConcurrentMap[string, gps.DeviceStatus]

	onLocation   func(Situation)
	onSatellites func(Situation)

	lineBuf []byte
}

func NewManager() *Manager {
	return &Manager{
		deviceStatus: cmap.New[gps.DeviceStatus](),
	}
}

// calculateNACp maps the estimated horizontal position error in meters
// to the NACp categories defined in AC 20-165A.
func calculateNACp(accuracy float32) uint8 {
	ret := uint8(0)

	if accuracy < 3 {
		ret = 11
	} else if accuracy < 10 {
		ret = 10
	} else if accuracy < 30 {
		ret = 9
	} else if accuracy < 92.6 {
		ret = 8
	} else if accuracy < 185.2 {
		ret = 7
	} else if accuracy < 555.6 {
		ret = 6
	}

	return ret
}

// Attach creates the protocol session on top of the given sender.
func (m *Manager) Attach(mode gnss.Mode, rate, baud uint, sender gnss.Sender) *gnss.Session {
	m.session = gnss.NewSession(gnss.Config{
		Mode:         mode,
		Rate:         rate,
		Baud:         baud,
		Sender:       sender,
		OnLocation:   m.handleLocation,
		OnSatellites: m.handleSatellites,
	})
	return m.session
}

func (m *Manager) handleLocation(loc *gnss.Location) {
	m.mu.Lock()
	m.situation.Location = *loc
	m.situation.NACp = calculateNACp(float32(loc.EHPE) / 1000.0)
	m.situation.LocationTime = time.Now()
	snapshot := m.situation
	m.mu.Unlock()

	locationsTotal.Inc()

	if m.onLocation != nil {
		m.onLocation(snapshot)
	}
}

func (m *Manager) handleSatellites(sats *gnss.Satellites) {
	m.mu.Lock()
	m.situation.Satellites = *sats
	m.situation.SatelliteTime = time.Now()
	snapshot := m.situation
	m.mu.Unlock()

	satellitesInView.Set(float64(sats.Count))

	if m.onSatellites != nil {
		m.onSatellites(snapshot)
	}
}

// Situation returns the latest snapshot.
func (m *Manager) Situation() Situation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.situation
}

// HasFix reports whether a fix arrived recently.
func (m *Manager) HasFix() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.situation.Location.Type >= gnss.LocationType2D &&
		time.Since(m.situation.LocationTime) < 3*time.Second
}

// Feed returns the byte sink for a named transport: bytes go to the
// session, link health and the line tap are updated along the way.
func (m *Manager) Feed(name string, debug bool) gps.ByteSink {
	m.deviceStatus.Set(name, gps.DeviceStatus{Name: name, Connected: true})

	return func(data []byte) {
		status, _ := m.deviceStatus.Get(name)
		status.LastSeen = time.Now()
		status.BytesReceived += uint64(len(data))
		bytesReceived.Add(float64(len(data)))

		m.session.Receive(data)
		m.tapLines(&status, data, debug)

		m.deviceStatus.Set(name, status)
	}
}

// tapLines reassembles NMEA lines from the raw stream and decodes the
// passthrough types with go-nmea for the debug log. The core session
// never depends on this path.
func (m *Manager) tapLines(status *gps.DeviceStatus, data []byte, debug bool) {
	m.lineBuf = append(m.lineBuf, data...)
	if len(m.lineBuf) > 4096 {
		m.lineBuf = m.lineBuf[len(m.lineBuf)-4096:]
	}

	for {
		nl := -1
		for i, c := range m.lineBuf {
			if c == '\n' {
				nl = i
				break
			}
		}
		if nl < 0 {
			return
		}
		line := strings.TrimSpace(string(m.lineBuf[:nl]))
		m.lineBuf = m.lineBuf[nl+1:]

		start := strings.Index(line, "$")
		if start < 0 {
			continue
		}
		line = line[start:]

		if _, ok := common.ValidateNMEAChecksum(line); !ok {
			status.CRCErrors++
			crcErrors.Inc()
			continue
		}
		status.LinesTapped++

		if len(line) < 6 {
			continue
		}
		if !slices.Contains(tappedNMEATypes(), line[3:6]) {
			continue
		}

		sentencesTapped.Inc()
		if debug {
			if parsed, err := nmea.Parse(line); err == nil {
				log.Printf("GPS tap: %s %v", parsed.DataType(), parsed)
			}
		}
	}
}

// DeviceStatuses lists the link health records.
func (m *Manager) DeviceStatuses() []gps.DeviceStatus {
	statuses := make([]gps.DeviceStatus, 0)
	for entry := range m.deviceStatus.IterBuffered() {
		statuses = append(statuses, entry.Val)
	}
	return statuses
}

// RunWatchdog logs when the receiver goes quiet. Returns when stop is
// closed.
func (m *Manager) RunWatchdog(stop <-chan struct{}) {
	wd := common.NewWatchDog(RX_WATCHDOG_TIME)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			wd.Stop()
			return
		case <-wd.C:
			log.Printf("GPS: no data from receiver for %v", RX_WATCHDOG_TIME)
		case <-ticker.C:
			for entry := range m.deviceStatus.IterBuffered() {
				if time.Since(entry.Val.LastSeen) < time.Second {
					wd.Poke()
				}
			}
		}
	}
}
