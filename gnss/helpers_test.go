package gnss

import (
	"fmt"
	"time"
)

// nmeaSentence frames a payload with '$', the XOR checksum and CR/LF.
func nmeaSentence(payload string) []byte {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return []byte(fmt.Sprintf("$%s*%02X\r\n", payload, ck))
}

// ubxFrame frames a payload with the UBX sync chars and the Fletcher
// checksum over class, id, length and payload.
func ubxFrame(class, id byte, payload []byte) []byte {
	frame := []byte{0xb5, 0x62, class, id, byte(len(payload)), byte(len(payload) >> 8)}
	frame = append(frame, payload...)

	var ckA, ckB byte
	for _, c := range frame[2:] {
		ckA += c
		ckB += ckA
	}
	return append(frame, ckA, ckB)
}

// frameSender records transmitted frames; completion callbacks are held
// until the test releases them.
type frameSender struct {
	frames [][]byte
	dones  []func()
}

func (f *frameSender) Send(data []byte, done func()) {
	f.frames = append(f.frames, append([]byte(nil), data...))
	if done != nil {
		f.dones = append(f.dones, done)
	}
}

func (f *frameSender) last() []byte {
	if len(f.frames) == 0 {
		return nil
	}
	return f.frames[len(f.frames)-1]
}

func (f *frameSender) complete() {
	for _, done := range f.dones {
		done()
	}
	f.dones = nil
}

// manualTimer stands in for the acknowledge timeout; tests fire it by
// hand.
type manualTimer struct {
	fn      func()
	running bool
	starts  int
	stops   int
}

func (m *manualTimer) Start(d time.Duration, fn func()) {
	m.fn = fn
	m.running = true
	m.starts++
}

func (m *manualTimer) Stop() {
	m.running = false
	m.stops++
}

func (m *manualTimer) fire() {
	if m.running {
		m.running = false
		m.fn()
	}
}

// fixCollector captures emitted snapshots.
type fixCollector struct {
	locations  []Location
	satellites []Satellites
}

func (c *fixCollector) location(loc *Location) {
	c.locations = append(c.locations, *loc)
}

func (c *fixCollector) sats(s *Satellites) {
	c.satellites = append(c.satellites, *s)
}

func newNMEASession(c *fixCollector) *Session {
	return NewSession(Config{
		Mode:         ModeNMEA,
		OnLocation:   c.location,
		OnSatellites: c.sats,
	})
}

// frameClassID extracts class and id, looking past the wake-up preamble
// of the continuous-mode frame.
func frameClassID(frame []byte) (byte, byte) {
	if frame[0] != 0xb5 {
		return 0x06, 0x11
	}
	return frame[2], frame[3]
}
