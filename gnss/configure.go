/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	configure.go: the configuration orchestrator. Command tables are
	replayed one frame at a time, gated on the per-frame acknowledgement
	(UBX ACK-ACK/ACK-NACK, Mediatek PMTK001) and, for UBX, re-sent on a
	250 ms timeout. The runtime setters load a small table and reuse the
	same engine.
*/

package gnss

import "time"

// Responses that drive the table engine forward.
const (
	responseNone = iota
	responseACK
	responseNACK
	responseStartup
	responseNMEASentence
	responseUBXMessage
)

// mtkSend transmits one PMTK sentence and records its three-digit
// command number as the pending acknowledgement.
func (s *Session) mtkSend(data []byte) {
	s.command = (uint32(data[5]-'0')*10+uint32(data[6]-'0'))*10 + uint32(data[7]-'0')
	s.busy.Set()

	s.sender.Send(data, s.sendComplete)
}

func (s *Session) mtkTable(table [][]byte) {
	s.table = table
	s.tableIndex = 1

	s.mtkSend(table[0])
}

// mtkConfigure advances the table engine on an acknowledgement (or on
// the first valid sentence while waiting out the baud handshake). A NACK
// advances too; the offending command is skipped as best effort.
func (s *Session) mtkConfigure(response int, command uint32) {
	var data []byte

	if s.table != nil {
		if s.init == initMTKBaudRate {
			s.init = initMTKTable

			data = s.table[s.tableIndex]
			s.tableIndex++
		} else {
			if s.tableIndex < len(s.table) {
				data = s.table[s.tableIndex]
				s.tableIndex++
			} else {
				s.table = nil
				s.tableIndex = 0

				if s.init == initMTKTable {
					s.init = initDone
					s.seen = 0
					s.expected = seenGPGGA | seenGPGSA | seenGPGSV | seenGPRMC

					s.location.Type = LocationTypeNone
					s.location.Mask = 0
				}
			}
		}
	}

	if data != nil {
		s.mtkSend(data)
	}
}

// ubxSend transmits one UBX frame and records its class/id as the
// pending acknowledgement. The continuous-mode frame is recognised by
// its wake-up preamble, which hides the class/id bytes at their usual
// offsets.
func (s *Session) ubxSend(data []byte) {
	var command uint32

	if data[0] != 0xb5 {
		command = 0x0611
	} else {
		command = uint32(data[2])<<8 | uint32(data[3])
	}

	s.command = command
	s.busy.Set()

	s.sender.Send(data, s.sendComplete)
}

func (s *Session) ubxTable(table [][]byte) {
	s.table = table
	s.tableIndex = 1

	s.ubxSend(table[0])

	s.timer.Start(ackTimeoutMs*time.Millisecond, s.handleAckTimeout)
}

// ubxConfigure advances the table engine: stop the resend timer, send
// the next frame (or finish the table) and re-arm the timer for the new
// frame's acknowledgement.
func (s *Session) ubxConfigure(response int, command uint32) {
	var data []byte

	s.timer.Stop()

	if s.table != nil {
		if s.init == initUBXBaudRate {
			s.init = initUBXTable

			data = s.table[s.tableIndex]
			s.tableIndex++
		} else {
			if s.tableIndex < len(s.table) {
				data = s.table[s.tableIndex]
				s.tableIndex++
			} else {
				s.table = nil
				s.tableIndex = 0

				if s.init == initUBXTable {
					s.init = initDone

					s.expected = seenNavDOP | seenNavPVT | seenNavSVInfo | seenNavTimeGPS
					s.seen = 0
					s.location.Type = LocationTypeNone
					s.location.Mask = 0
				}
			}
		}
	}

	if data != nil {
		s.ubxSend(data)

		s.timer.Start(ackTimeoutMs*time.Millisecond, s.handleAckTimeout)
	}
}

// handleAckTimeout re-sends the frame whose acknowledgement never came,
// verbatim, and re-arms the timer. There is no retry cap; a receiver
// that never acknowledges is a dead line, which the transport notices.
func (s *Session) handleAckTimeout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return
	}

	s.ubxSend(s.table[s.tableIndex-1])

	s.timer.Start(ackTimeoutMs*time.Millisecond, s.handleAckTimeout)
}

// ubxChecksum computes the Fletcher checksum over class, id, length and
// payload and stores it in the trailing two bytes.
func ubxChecksum(data []byte) {
	count := (int(data[4]) | int(data[5])<<8) + 8

	var ckA, ckB byte
	for i := 2; i < count-2; i++ {
		ckA += data[i]
		ckB += ckA
	}

	data[count-2] = ckA
	data[count-1] = ckB
}

// SetExternal switches the external antenna input (u-blox only).
// Returns false while a table or transmission is still in flight.
func (s *Session) SetExternal(on bool) bool {
	if !s.Done() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeUblox {
		if on {
			s.ubxTable(ubxExternalEnableTable)
		} else {
			s.ubxTable(ubxExternalDisableTable)
		}
	}

	return true
}

// SetConstellation selects the active constellations from a mask of
// Constellation bits. GPS is always on; the mask decides GLONASS.
func (s *Session) SetConstellation(mask uint32) bool {
	if !s.Done() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.mode {
	case ModeMediatek:
		if mask&ConstellationGLONASS != 0 {
			s.mtkTable(mtkConstellationGPSGlonassTable)
		} else {
			s.mtkTable(mtkConstellationGPSTable)
		}
	case ModeUblox:
		if mask&ConstellationGLONASS != 0 {
			s.ubxTable(ubxConstellationGPSGlonassTable)
		} else {
			s.ubxTable(ubxConstellationGPSTable)
		}
	}

	return true
}

// SetSBAS switches SBAS augmentation.
func (s *Session) SetSBAS(on bool) bool {
	if !s.Done() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.mode {
	case ModeMediatek:
		if on {
			s.mtkTable(mtkSBASEnableTable)
		} else {
			s.mtkTable(mtkSBASDisableTable)
		}
	case ModeUblox:
		if on {
			s.ubxTable(ubxSBASEnableTable)
		} else {
			s.ubxTable(ubxSBASDisableTable)
		}
	}

	return true
}

// SetQZSS switches QZSS tracking.
func (s *Session) SetQZSS(on bool) bool {
	if !s.Done() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.mode {
	case ModeMediatek:
		if on {
			s.mtkTable(mtkQZSSEnableTable)
		} else {
			s.mtkTable(mtkQZSSDisableTable)
		}
	case ModeUblox:
		if on {
			s.ubxTable(ubxQZSSEnableTable)
		} else {
			s.ubxTable(ubxQZSSDisableTable)
		}
	}

	return true
}

// SetPeriodic switches the receiver between continuous and cyclic power
// operation (u-blox only). onTime and period are in seconds; onTime 0
// selects continuous operation, force keeps the receiver cycling even
// without a fix.
func (s *Session) SetPeriodic(onTime, period uint, force bool) bool {
	if !s.Done() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeUblox {
		return true
	}

	var updatePeriod, searchPeriod uint32
	if onTime == 0 {
		updatePeriod = 1000
		searchPeriod = 10000
	} else {
		updatePeriod = uint32(period) * 1000
		searchPeriod = uint32(period) * 1000
	}

	// Build a CFG-PM2 frame in the scratch buffer. The buffer is fully
	// zeroed first; the reserved fields must go out as zeros.
	data := s.txData[:]
	for i := range data {
		data[i] = 0
	}

	data[0] = 0xb5
	data[1] = 0x62
	data[2] = 0x06
	data[3] = 0x3b
	data[4] = 0x2c
	data[5] = 0x00
	data[6] = 0x01 // version
	data[10] = 0x00
	data[11] = 0x01
	if onTime != 0 && updatePeriod >= 10000 {
		if force {
			data[12] = 0x01
		} else {
			data[12] = 0x00
		}
	} else {
		data[12] = 0x02
	}
	data[13] = 0x00
	data[14] = byte(updatePeriod >> 0)
	data[15] = byte(updatePeriod >> 8)
	data[16] = byte(updatePeriod >> 16)
	data[17] = byte(updatePeriod >> 24)
	data[18] = byte(searchPeriod >> 0)
	data[19] = byte(searchPeriod >> 8)
	data[20] = byte(searchPeriod >> 16)
	data[21] = byte(searchPeriod >> 24)
	data[26] = byte(onTime >> 0)
	data[27] = byte(onTime >> 8)

	ubxChecksum(data)

	table := [][]byte{ubxCfgRxmContinuous, data[:0x2c+8]}
	if onTime != 0 {
		table = append(table, ubxCfgRxmPowersave, ubxCfgSave)
	} else {
		table = append(table, ubxCfgSave)
	}

	s.ubxTable(table)

	return true
}

// Sleep requests receiver backup mode (u-blox only). The request frame
// is not acknowledged; Done turns true once it left the wire.
func (s *Session) Sleep() bool {
	if !s.Done() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeUblox {
		s.ubxSend(ubxRxmPmreq)
	}

	return true
}

// Wakeup returns the receiver to continuous operation.
func (s *Session) Wakeup() bool {
	if !s.Done() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeUblox {
		s.ubxSend(ubxCfgRxmContinuous)
	}

	return true
}
