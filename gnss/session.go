/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	session.go: receiver session and the outer byte framer. The framer
	recognises NMEA sentences ('$' .. '*XX' CR LF with an XOR checksum)
	and, in u-blox mode, UBX frames (0xB5 0x62 with a Fletcher-8
	checksum), and hands verified payloads to the per-protocol machines.
*/

package gnss

import (
	"sync"
	"time"

	"github.com/tevino/abool/v2"
)

// Receiver protocol mode.
type Mode uint8

const (
	ModeNMEA Mode = iota // passive: parse only, never configure
	ModeMediatek
	ModeUblox
)

// Constellation mask bits for SetConstellation.
const (
	ConstellationGPS = 1 << iota
	ConstellationGLONASS
)

// Sender transmits one frame on the wire and calls done (possibly from
// another goroutine) once the buffer may be reused. Send must not block
// and must not deliver received bytes synchronously from inside the call.
type Sender interface {
	Send(data []byte, done func())
}

// Timer is a one-shot timer used for the UBX acknowledge timeout. Start
// after Stop, or Start while already running, re-arms it.
type Timer interface {
	Start(d time.Duration, fn func())
	Stop()
}

type afterFuncTimer struct {
	t *time.Timer
}

func (a *afterFuncTimer) Start(d time.Duration, fn func()) {
	if a.t != nil {
		a.t.Stop()
	}
	a.t = time.AfterFunc(d, fn)
}

func (a *afterFuncTimer) Stop() {
	if a.t != nil {
		a.t.Stop()
	}
}

// Outer framer states.
const (
	stateStart = iota
	stateNMEAPayload
	stateNMEAChecksum1
	stateNMEAChecksum2
	stateNMEAEndCR
	stateNMEAEndLF
	stateUBXSync2
	stateUBXMessage1
	stateUBXMessage2
	stateUBXLength1
	stateUBXLength2
	stateUBXPayload
	stateUBXCkA
	stateUBXCkB
)

// Init phases of the configuration orchestrator.
const (
	initDone = iota
	initMTKBaudRate
	initMTKTable
	initUBXBaudRate
	initUBXTable
)

const (
	rxDataSize   = 96
	txDataSize   = 64
	commandNone  = ^uint32(0)
	rxChunkNone  = -1
	ackTimeoutMs = 250
)

// Sentence/message bits of the seen/expected masks. The low half is the
// NMEA sentence set, the high half the UBX message set; the solution bit
// gates satellite emission behind the location emission of the epoch.
const (
	seenGPGGA = 0x00000001
	seenGPGSA = 0x00000002
	seenGPGST = 0x00000004
	seenGPGSV = 0x00000008
	seenGPRMC = 0x00000010
	seenGLGSA = 0x00000020
	seenGLGSV = 0x00000040

	seenSolution = 0x00008000

	seenNavDOP     = 0x00010000
	seenNavPVT     = 0x00040000
	seenNavSVInfo  = 0x00100000
	seenNavTimeGPS = 0x00200000
)

const nmeaHexAscii = "0123456789ABCDEF"

// Config wires a Session to its environment.
type Config struct {
	Mode Mode
	Rate uint // fixes per second: 1, 5 or 10
	Baud uint // target line rate for the baud handshake

	Sender Sender
	Timer  Timer // nil selects a time.AfterFunc backed timer

	OnLocation   func(*Location)   // borrowed for the duration of the call
	OnSatellites func(*Satellites) // borrowed for the duration of the call
}

// Session is the per-receiver protocol engine. One Session talks to one
// receiver; Receive and the timer callback are serialised internally,
// everything else must be called from one goroutine at a time.
type Session struct {
	mu sync.Mutex

	mode  Mode
	state uint8
	init  uint8
	busy  *abool.AtomicBool

	seen     uint32
	expected uint32

	checksum uint8
	rxCount  int
	rxOffset int
	rxChunk  int
	rxData   [rxDataSize]byte
	txData   [txDataSize]byte

	table      [][]byte
	tableIndex int

	nmea nmeaContext
	ubx  ubxContext

	location   Location
	satellites Satellites

	command uint32

	sender       Sender
	timer        Timer
	onLocation   func(*Location)
	onSatellites func(*Satellites)
}

// NewSession builds a session and, for the active modes, transmits the
// vendor baud-rate sentence that opens the init handshake.
func NewSession(cfg Config) *Session {
	s := &Session{
		mode:         cfg.Mode,
		busy:         abool.New(),
		command:      commandNone,
		rxChunk:      rxChunkNone,
		sender:       cfg.Sender,
		timer:        cfg.Timer,
		onLocation:   cfg.OnLocation,
		onSatellites: cfg.OnSatellites,
	}
	if s.timer == nil {
		s.timer = &afterFuncTimer{}
	}

	var baudSentence []byte

	switch cfg.Mode {
	case ModeUblox:
		s.init = initUBXBaudRate
		switch {
		case cfg.Rate >= 10:
			s.table = ubxInitTable10Hz
		case cfg.Rate >= 5:
			s.table = ubxInitTable5Hz
		default:
			s.table = ubxInitTable1Hz
		}
		baudSentence = ubxBaudSentence(cfg.Baud)

	case ModeMediatek:
		s.init = initMTKBaudRate
		if cfg.Rate >= 5 {
			s.table = mtkInitTable5Hz
		} else {
			s.table = mtkInitTable1Hz
		}
		baudSentence = mtkBaudSentence(cfg.Baud)

	default:
		s.mode = ModeNMEA
		s.init = initDone
		s.expected = seenGPGGA | seenGPGSA | seenGPGSV | seenGPRMC
	}

	if baudSentence != nil && s.sender != nil {
		s.sender.Send(baudSentence, nil)
	}

	return s
}

// Done reports whether no command table is in flight and the transmit
// path is idle.
func (s *Session) Done() bool {
	s.mu.Lock()
	table := s.table
	s.mu.Unlock()

	return table == nil && !s.busy.IsSet()
}

// sendComplete is handed to the Sender as the completion callback.
func (s *Session) sendComplete() {
	s.busy.UnSet()
}

// Receive feeds raw receiver bytes into the framer. It never blocks; all
// callbacks fire from inside the call.
func (s *Session) Receive(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range data {
		s.receiveByte(c)
	}
}

func (s *Session) receiveByte(c byte) {
	if s.state <= stateNMEAEndLF && c == '$' {
		// A '$' is always the start of a new sentence and discards a
		// partially read one.
		s.state = stateNMEAPayload
		s.checksum = 0
		s.rxCount = 0

		s.nmeaStartSentence()
		return
	}

	switch s.state {
	case stateStart:
		if s.mode == ModeUblox && c == 0xb5 {
			s.state = stateUBXSync2
		}

	case stateNMEAPayload:
		if c == '*' {
			s.nmeaParseField(s.rxData[:s.rxCount])
			s.state = stateNMEAChecksum1
		} else if c >= 0x20 && c <= 0x7f {
			if s.rxCount >= rxDataSize {
				// Reject a too long field.
				s.state = stateStart
			} else {
				s.checksum ^= c
				if c == ',' {
					s.nmeaParseField(s.rxData[:s.rxCount])
					s.rxCount = 0
				} else {
					s.rxData[s.rxCount] = c
					s.rxCount++
				}
			}
		} else {
			s.state = stateStart
		}

	case stateNMEAChecksum1:
		if c == nmeaHexAscii[s.checksum>>4] {
			s.state = stateNMEAChecksum2
		} else {
			s.state = stateStart
		}

	case stateNMEAChecksum2:
		if c == nmeaHexAscii[s.checksum&0x0f] {
			s.state = stateNMEAEndCR
		} else {
			s.state = stateStart
		}

	case stateNMEAEndCR:
		if c == '\r' {
			s.state = stateNMEAEndLF
		} else {
			s.state = stateStart
		}

	case stateNMEAEndLF:
		if c == '\n' {
			if s.init == initMTKBaudRate {
				s.mtkConfigure(responseNMEASentence, commandNone)
			}
			if s.init == initUBXBaudRate {
				s.ubxConfigure(responseNMEASentence, commandNone)
			}
			s.nmeaEndSentence()
		}
		s.state = stateStart

	case stateUBXSync2:
		if c == 0x62 {
			s.state = stateUBXMessage1
		} else {
			s.state = stateStart
		}

	case stateUBXMessage1:
		s.ubx.ckA = c
		s.ubx.ckB = c
		s.ubx.message = uint16(c) << 8
		s.state = stateUBXMessage2

	case stateUBXMessage2:
		s.ubx.ckA += c
		s.ubx.ckB += s.ubx.ckA
		s.ubx.message |= uint16(c)
		s.state = stateUBXLength1

	case stateUBXLength1:
		s.ubx.ckA += c
		s.ubx.ckB += s.ubx.ckA
		s.ubx.length = int(c)
		s.state = stateUBXLength2

	case stateUBXLength2:
		s.ubx.ckA += c
		s.ubx.ckB += s.ubx.ckA
		s.ubx.length |= int(c) << 8
		s.rxCount = 0
		s.rxOffset = 0
		s.rxChunk = rxChunkNone

		s.ubxStartMessage(s.ubx.message)

		if s.rxCount == s.ubx.length {
			s.state = stateUBXCkA
		} else {
			s.state = stateUBXPayload
		}

	case stateUBXPayload:
		s.ubx.ckA += c
		s.ubx.ckB += s.ubx.ckA

		if s.rxCount-s.rxOffset < rxDataSize {
			s.rxData[s.rxCount-s.rxOffset] = c
		}

		s.rxCount++

		if s.rxCount == s.rxChunk {
			s.ubxParseMessage(s.ubx.message, s.rxData[:])
		}

		if s.rxCount == s.ubx.length {
			s.state = stateUBXCkA
		}

	case stateUBXCkA:
		s.ubx.ckA ^= c
		s.state = stateUBXCkB

	case stateUBXCkB:
		s.ubx.ckB ^= c

		if s.ubx.ckA == 0 && s.ubx.ckB == 0 {
			if s.init == initUBXBaudRate {
				s.ubxConfigure(responseUBXMessage, commandNone)
			}
			if s.rxCount-s.rxOffset <= rxDataSize {
				s.ubxEndMessage(s.ubx.message, s.rxData[:])
			}
		}
		s.state = stateStart
	}
}
