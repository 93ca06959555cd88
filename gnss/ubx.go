/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	ubx.go: UBX message dispatch. NAV-DOP, NAV-PVT and NAV-TIMEGPS are
	parsed whole; NAV-SVINFO is streamed one 12-byte channel record at a
	time so the receive buffer never has to hold the full payload. All
	payload reads are explicit little-endian byte assembly.
*/

package gnss

import "encoding/binary"

// UBX message ids as class<<8 | id.
const (
	ubxNavDOP     = 0x0104
	ubxNavPVT     = 0x0107
	ubxNavTimeGPS = 0x0120
	ubxNavSVInfo  = 0x0130
	ubxAckNack    = 0x0500
	ubxAckAck     = 0x0501
)

type ubxContext struct {
	ckA     uint8
	ckB     uint8
	message uint16
	length  int
	week    uint16
	tow     uint32
	itow    uint32
}

func ubxUint16(data []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(data[offset:])
}

func ubxUint32(data []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(data[offset:])
}

func ubxInt32(data []byte, offset int) int32 {
	return int32(binary.LittleEndian.Uint32(data[offset:]))
}

// ubxCanonicalPRN maps a u-blox NAV-SVINFO satellite id to the canonical
// PRN numbering shared with the NMEA path. Returns 0 for ids outside any
// known constellation.
func ubxCanonicalPRN(svid uint32) uint32 {
	switch {
	case svid >= 1 && svid <= 32: // GPS
		return svid
	case svid >= 33 && svid <= 64: // BEIDOU
		return svid + (201 + 5 - 33)
	case svid >= 65 && svid <= 96: // GLONASS
		return svid
	case svid >= 120 && svid <= 151: // SBAS
		return svid - 87
	case svid >= 152 && svid <= 158: // SBAS
		return svid
	case svid >= 159 && svid <= 163: // BEIDOU
		return svid + (201 - 159)
	case svid >= 193 && svid <= 200: // QZSS
		return svid
	case svid == 255: // GLONASS, slot unknown
		return svid
	}
	return 0
}

// ubxStartMessage runs once the header of a message is complete, before
// any payload byte. NAV-SVINFO switches the framer into chunked mode:
// the first boundary sits after the 8 byte payload header plus one
// 12 byte record.
func (s *Session) ubxStartMessage(message uint16) {
	if message == ubxNavSVInfo {
		s.rxChunk = 20
		s.satellites.Count = 0

		s.seen &^= seenNavSVInfo
	}
}

// ubxParseMessage runs at every chunk boundary with the current record
// sitting at a fixed buffer position. Advancing rxOffset alongside
// rxChunk keeps the next record landing on the same bytes.
func (s *Session) ubxParseMessage(message uint16, data []byte) {
	if message != ubxNavSVInfo {
		return
	}

	svid := ubxCanonicalPRN(uint32(data[9]))

	if svid != 0 && s.satellites.Count < SatellitesCountMax {
		sat := &s.satellites.Info[s.satellites.Count]
		sat.PRN = uint8(svid)

		if elev := int8(data[13]); elev > 0 {
			sat.Elevation = uint8(elev)
			sat.Azimuth = uint16(int16(ubxUint16(data, 14)))
		} else {
			sat.Elevation = 0
			sat.Azimuth = 0
		}

		sat.SNR = data[12]

		switch data[11] & 0x0f {
		case 0x02, 0x03, 0x04, 0x05, 0x06, 0x07:
			// Signal acquired, possibly code/carrier locked.
			sat.State = SatelliteStateTracking
		default:
			sat.State = SatelliteStateSearching
		}

		if sat.State&SatelliteStateTracking != 0 {
			if data[10]&0x01 != 0 {
				sat.State |= SatelliteStateNavigating
			}
			if data[10]&0x02 != 0 {
				sat.State |= SatelliteStateCorrection
			}
		}

		s.satellites.Count++
	}

	s.rxOffset += 12
	s.rxChunk += 12
}

// ubxEndMessage runs after the Fletcher checksum verified. NAV messages
// share the itow epoch key: a mismatch against the accumulator discards
// the partial epoch before the new message is applied.
func (s *Session) ubxEndMessage(message uint16, data []byte) {
	ctx := &s.ubx

	if message>>8 == 0x01 {
		if s.seen&(seenNavDOP|seenNavPVT|seenNavSVInfo|seenNavTimeGPS|seenSolution) != 0 {
			if ctx.itow != ubxUint32(data, 0) {
				s.seen = 0
				s.location.Type = LocationTypeNone
				s.location.Mask = 0
			}
		}

		ctx.itow = ubxUint32(data, 0)

		switch message {
		case ubxNavDOP:
			s.location.PDOP = ubxUint16(data, 6)
			s.location.HDOP = ubxUint16(data, 12)
			s.location.VDOP = ubxUint16(data, 10)

			s.location.Mask |= LocationMaskPDOP | LocationMaskHDOP | LocationMaskVDOP

			s.seen |= seenNavDOP

		case ubxNavPVT:
			if data[11]&0x03 == 0x03 {
				s.location.Time.Year = uint8(ubxUint16(data, 4) - 1980)
				s.location.Time.Month = data[6]
				s.location.Time.Day = data[7]
				s.location.Time.Hour = data[8]
				s.location.Time.Minute = data[9]
				s.location.Time.Second = data[10]

				if nano := ubxInt32(data, 16); nano > 0 {
					s.location.Time.Millis = uint16((nano + 500000) / 1000000)
				} else {
					s.location.Time.Millis = 0
				}
			} else {
				s.location.Time = UtcTime{Year: 1980 - 1980, Month: 1, Day: 6}
			}

			s.location.Latitude = ubxInt32(data, 28)
			s.location.Longitude = ubxInt32(data, 24)
			s.location.Altitude = ubxInt32(data, 36)
			s.location.Separation = ubxInt32(data, 32) - ubxInt32(data, 36)
			s.location.Speed = ubxInt32(data, 60)
			s.location.Course = ubxInt32(data, 64)
			s.location.Climb = -ubxInt32(data, 56)
			s.location.EHPE = ubxUint32(data, 40)
			s.location.EVPE = ubxUint32(data, 44)

			switch data[20] {
			case 0x00:
				s.location.Type = LocationTypeNone
				s.location.Quality = LocationQualityNone
			case 0x01:
				s.location.Type = LocationTypeNone
				s.location.Quality = LocationQualityEstimated
			case 0x02:
				s.location.Type = LocationType2D
				s.location.Quality = ubxPVTQuality(data[21])
			case 0x03:
				s.location.Type = LocationType3D
				s.location.Quality = ubxPVTQuality(data[21])
			case 0x04:
				s.location.Type = LocationType2D
				s.location.Quality = LocationQualityEstimated
			case 0x05:
				s.location.Type = LocationTypeTime
				s.location.Quality = LocationQualityNone
			}

			s.location.NumSV = data[23]

			s.location.Mask |= LocationMaskPosition | LocationMaskAltitude |
				LocationMaskSpeed | LocationMaskCourse | LocationMaskClimb |
				LocationMaskEHPE | LocationMaskEVPE

			s.seen |= seenNavPVT
			s.seen &^= seenSolution

		case ubxNavTimeGPS:
			if data[11]&0x03 == 0x03 {
				tow := int64(ubxUint32(data, 0)) + int64(ubxInt32(data, 4)+500000)/1000000
				week := ubxUint16(data, 8)

				if tow < 0 {
					tow += 604800000
					week--
				}
				if tow >= 604800000 {
					tow -= 604800000
					week++
				}

				ctx.week = week
				ctx.tow = uint32(tow)

				s.location.Correction = int16(int8(data[10]))
			} else {
				ctx.week = 0
				ctx.tow = 0

				s.location.Correction = 0
			}

			s.seen |= seenNavTimeGPS
			s.seen &^= seenSolution

		case ubxNavSVInfo:
			s.seen |= seenNavSVInfo
		}
	} else if message == ubxAckNack {
		command := uint32(data[0])<<8 | uint32(data[1])

		if command == s.command {
			s.command = commandNone
			s.ubxConfigure(responseNACK, command)
		}
	} else if message == ubxAckAck {
		command := uint32(data[0])<<8 | uint32(data[1])

		if command == s.command {
			s.command = commandNone
			s.ubxConfigure(responseACK, command)
		}
	}

	if s.init != initDone {
		return
	}

	expected := s.expected & (seenNavDOP | seenNavPVT | seenNavTimeGPS)

	if s.seen&expected == expected {
		if ctx.week != 0 && s.location.Time.Year != 0 {
			if s.seen&seenNavTimeGPS == 0 {
				s.location.Correction = int16(utcOffsetTime(&s.location.Time, ctx.week, ctx.tow))
			}
			s.location.Mask |= LocationMaskTime | LocationMaskCorrection
		}

		s.emitLocation()

		s.seen &^= seenNavDOP | seenNavPVT | seenNavTimeGPS
		s.seen |= seenSolution
	}

	expected = s.expected & seenNavSVInfo

	if s.seen&seenSolution != 0 && s.seen&expected == expected {
		s.emitSatellites()

		s.seen &^= seenNavSVInfo
	}
}

// ubxPVTQuality derives the fix quality from the NAV-PVT flags byte:
// carrier-phase bits beat the differential bit beats plain gnssFixOK.
func ubxPVTQuality(flags byte) uint8 {
	if flags&0xc0 != 0 {
		if flags&0x80 != 0 {
			return LocationQualityRTKFixed
		}
		return LocationQualityRTKFloat
	}
	if flags&0x01 != 0 {
		if flags&0x02 != 0 {
			return LocationQualityDifferential
		}
		return LocationQualityAutonomous
	}
	return LocationQualityNone
}
