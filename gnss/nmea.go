/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	nmea.go: per-sentence field machine. The framer hands over one
	tokenized field at a time; the sequence number selects the parser for
	the next field. Any malformed field drops the sentence into the skip
	(sink) state and clears the masks of whatever it had contributed.
*/

package gnss

// Field sequence states. The address field selects the entry sequence of
// a sentence; every field advances to the following one unless the
// handler steers elsewhere (skip, quad loop, early end).
const (
	seqStart = iota
	seqSkip

	seqGGATime
	seqGGALatitude
	seqGGALatitudeNS
	seqGGALongitude
	seqGGALongitudeEW
	seqGGAQuality
	seqGGANumSV
	seqGGAHDOP
	seqGGAAltitude
	seqGGAAltitudeUnit
	seqGGASeparation
	seqGGASeparationUnit
	seqGGADifferentialAge
	seqGGADifferentialStation

	seqGSAOperation
	seqGSANavigation
	seqGSAUsedPRN1
	seqGSAUsedPRN2
	seqGSAUsedPRN3
	seqGSAUsedPRN4
	seqGSAUsedPRN5
	seqGSAUsedPRN6
	seqGSAUsedPRN7
	seqGSAUsedPRN8
	seqGSAUsedPRN9
	seqGSAUsedPRN10
	seqGSAUsedPRN11
	seqGSAUsedPRN12
	seqGSAPDOP
	seqGSAHDOP
	seqGSAVDOP

	seqGSTTime
	seqGSTRange
	seqGSTStddevMajor
	seqGSTStddevMinor
	seqGSTOrientation
	seqGSTStddevLatitude
	seqGSTStddevLongitude
	seqGSTStddevAltitude

	seqGSVSentences
	seqGSVCurrent
	seqGSVInViewCount
	seqGSVInViewID
	seqGSVInViewElev
	seqGSVInViewAzim
	seqGSVInViewSNR

	seqRMCTime
	seqRMCStatus
	seqRMCLatitude
	seqRMCLatitudeNS
	seqRMCLongitude
	seqRMCLongitudeEW
	seqRMCSpeed
	seqRMCCourse
	seqRMCDate
	seqRMCVariation
	seqRMCVariationUnit
	seqRMCMode

	seqGGAEnd
	seqGSAEnd
	seqGSTEnd
	seqGSVEnd
	seqRMCEnd

	seqPMTK001Command
	seqPMTK001Status
	seqPMTK001End
)

// Per-sentence field presence bits; promoted into Location.Mask when the
// sentence terminates with a valid checksum.
const (
	fieldMaskTime = 1 << iota
	fieldMaskPosition
	fieldMaskAltitude
	fieldMaskSpeed
	fieldMaskCourse
	fieldMaskEHPE
	fieldMaskEVPE
	fieldMaskPDOP
	fieldMaskHDOP
	fieldMaskVDOP
)

const (
	navigationNone = iota
	navigation2D
	navigation3D
)

const (
	statusReceiverWarning = iota
	statusDataValid
)

type nmeaContext struct {
	prefix     byte // 'P', 'L' or 'N'
	sequence   uint8
	mask       uint16
	navigation uint8
	status     uint8

	svInViewSentences uint32
	svInViewCount     uint32
	svInViewIndex     uint32

	svUsedCount uint8
	svUsedMask  [3]uint32

	mtkCommand uint16
	mtkStatus  uint16
}

func (c *nmeaContext) clearUsed() {
	c.svUsedCount = 0
	c.svUsedMask[0] = 0
	c.svUsedMask[1] = 0
	c.svUsedMask[2] = 0
}

func (c *nmeaContext) usedPRN(svid uint32) bool {
	return svid >= 1 && svid <= 96 &&
		c.svUsedMask[(svid-1)>>5]&(1<<((svid-1)&31)) != 0
}

// nmeaStartSentence runs on every '$'. A sentence that got as far as its
// end sequence but never saw a clean CR/LF leaves per-cycle accumulators
// behind; drop them before the new sentence starts.
func (s *Session) nmeaStartSentence() {
	switch s.nmea.sequence {
	case seqGSAEnd:
		s.nmea.clearUsed()
	case seqGSVEnd:
		s.nmea.svInViewSentences = 0
	}

	s.nmea.sequence = seqStart
}

func (s *Session) nmeaParseField(data []byte) {
	seq := s.nmea.sequence

	var next uint8
	switch {
	case seq == seqStart:
		next = s.nmeaAddressField(data)
	case seq == seqSkip:
		next = seqSkip
	case seq >= seqGGATime && seq <= seqGGADifferentialStation:
		next = s.nmeaFieldGGA(seq, data)
	case seq >= seqGSAOperation && seq <= seqGSAVDOP:
		next = s.nmeaFieldGSA(seq, data)
	case seq >= seqGSTTime && seq <= seqGSTStddevAltitude:
		next = s.nmeaFieldGST(seq, data)
	case seq >= seqGSVSentences && seq <= seqGSVInViewSNR:
		next = s.nmeaFieldGSV(seq, data)
	case seq >= seqRMCTime && seq <= seqRMCMode:
		next = s.nmeaFieldRMC(seq, data)
	case seq == seqPMTK001Command || seq == seqPMTK001Status:
		next = s.nmeaFieldPMTK001(seq, data)
	default:
		// Trailing fields after an end sequence; stay put until CR/LF.
		next = seq
	}

	s.nmea.sequence = next
}

// nmeaAddressField dispatches on the sentence address. Unknown addresses
// sink the sentence.
func (s *Session) nmeaAddressField(data []byte) uint8 {
	if len(data) > 0 && data[0] == 'P' {
		if string(data) == "PMTK001" {
			return seqPMTK001Command
		}
		return seqSkip
	}

	if len(data) != 5 || data[0] != 'G' {
		return seqSkip
	}
	if data[1] != 'P' && data[1] != 'L' && data[1] != 'N' {
		return seqSkip
	}

	s.nmea.prefix = data[1]

	switch string(data[2:]) {
	case "GSA":
		// --GSA is the constellation switch detector: GN means a
		// composite fix with a second GSA to follow, GP or GL alone
		// means single-constellation operation.
		if s.seen&seenGPGGA != 0 {
			s.nmea.mask = fieldMaskPDOP | fieldMaskVDOP
			return seqGSAOperation
		}

	case "GSV":
		// Constellations report as GPGSV/GLGSV only; accepted once the
		// epoch is open (GGA seen) or right after a solution.
		if s.seen&(seenGPGGA|seenSolution) != 0 {
			return seqGSVSentences
		}

	case "GGA":
		// GSA/GSV are subsequent to a GGA; a GGA opens the epoch.
		s.seen &^= seenGPGGA | seenGPGSA | seenGPGSV |
			seenGLGSA | seenGLGSV | seenSolution

		s.nmea.mask = fieldMaskPosition | fieldMaskAltitude | fieldMaskHDOP
		s.nmea.svInViewSentences = 0
		s.nmea.clearUsed()
		s.satellites.Count = 0
		return seqGGATime

	case "GST":
		s.seen &^= seenGPGST | seenSolution
		s.nmea.mask = fieldMaskEHPE | fieldMaskEVPE
		return seqGSTTime

	case "RMC":
		s.seen &^= seenGPRMC | seenSolution
		s.nmea.mask = fieldMaskTime | fieldMaskSpeed | fieldMaskCourse
		return seqRMCTime
	}

	return seqSkip
}

// nmeaFieldTime handles the shared timestamp field of GGA/GST/RMC. The
// timestamp is the implicit epoch key: a mismatch against an already
// accumulated sentence nukes the accumulator.
func (s *Session) nmeaFieldTime(data []byte, next uint8) uint8 {
	if len(data) == 0 {
		s.nmea.mask &^= fieldMaskTime
		return next
	}

	var t UtcTime
	if !nmeaParseTime(data, &t) {
		return seqSkip
	}

	if s.seen&(seenGPGGA|seenGPGST|seenGPRMC) != 0 {
		have := &s.location.Time
		if have.Hour != t.Hour || have.Minute != t.Minute ||
			have.Second != t.Second || have.Millis != t.Millis {
			s.seen = 0
			s.location.Type = LocationTypeNone
			s.location.Mask = 0
		}
	}

	s.location.Time.Hour = t.Hour
	s.location.Time.Minute = t.Minute
	s.location.Time.Second = t.Second
	s.location.Time.Millis = t.Millis
	return next
}

func (s *Session) nmeaFieldGGA(seq uint8, data []byte) uint8 {
	next := seq + 1

	switch seq {
	case seqGGATime:
		return s.nmeaFieldTime(data, next)

	case seqGGALatitude:
		if len(data) == 0 {
			s.nmea.mask &^= fieldMaskPosition
		} else if latitude, ok := nmeaParseLatitude(data); ok {
			s.location.Latitude = int32(latitude)
		} else {
			next = seqSkip
		}

	case seqGGALatitudeNS:
		if s.nmea.mask&fieldMaskPosition != 0 {
			if len(data) > 0 && data[0] == 'S' {
				s.location.Latitude = -s.location.Latitude
			} else if len(data) == 0 || data[0] != 'N' {
				next = seqSkip
			}
		}

	case seqGGALongitude:
		if len(data) == 0 {
			s.nmea.mask &^= fieldMaskPosition
		} else if longitude, ok := nmeaParseLongitude(data); ok {
			s.location.Longitude = int32(longitude)
		} else {
			next = seqSkip
		}

	case seqGGALongitudeEW:
		if s.nmea.mask&fieldMaskPosition != 0 {
			if len(data) > 0 && data[0] == 'W' {
				s.location.Longitude = -s.location.Longitude
			} else if len(data) == 0 || data[0] != 'E' {
				next = seqSkip
			}
		}

	case seqGGAQuality:
		quality, ok := nmeaParseUnsigned(data)
		if len(data) == 0 || !ok {
			next = seqSkip
		} else {
			s.location.Quality = uint8(quality)
		}

	case seqGGAHDOP:
		if len(data) == 0 {
			s.nmea.mask &^= fieldMaskHDOP
		} else if hdop, ok := nmeaParseFixed(data, 2); ok {
			s.location.HDOP = uint16(hdop)
		} else {
			next = seqSkip
		}

	case seqGGAAltitude:
		if len(data) == 0 {
			s.nmea.mask &^= fieldMaskAltitude
		} else if altitude, neg, ok := parseSignedFixed(data, 3); ok {
			if neg {
				s.location.Altitude = -int32(altitude)
			} else {
				s.location.Altitude = int32(altitude)
			}
		} else {
			next = seqSkip
		}

	case seqGGAAltitudeUnit:
		if s.nmea.mask&fieldMaskAltitude != 0 {
			if len(data) == 0 || data[0] != 'M' {
				next = seqSkip
			}
		}

	case seqGGASeparation:
		if len(data) == 0 {
			s.nmea.mask &^= fieldMaskAltitude
		} else if separation, neg, ok := parseSignedFixed(data, 3); ok {
			if s.nmea.mask&fieldMaskAltitude != 0 {
				if neg {
					s.location.Separation = -int32(separation)
				} else {
					s.location.Separation = int32(separation)
				}
			}
		} else {
			next = seqSkip
		}

	case seqGGASeparationUnit:
		if s.nmea.mask&fieldMaskAltitude != 0 {
			if len(data) == 0 || data[0] != 'M' {
				next = seqSkip
			}
		}

	case seqGGANumSV, seqGGADifferentialAge:
		// skip field

	case seqGGADifferentialStation:
		next = seqGGAEnd
	}

	return next
}

func (s *Session) nmeaFieldGSA(seq uint8, data []byte) uint8 {
	next := seq + 1

	switch seq {
	case seqGSAOperation:
		// skip field: M(anual)/A(utomatic) carries no information the
		// navigation mode field doesn't.

	case seqGSANavigation:
		switch {
		case len(data) > 0 && data[0] == '1':
			s.nmea.navigation = navigationNone
		case len(data) > 0 && data[0] == '2':
			s.nmea.navigation = navigation2D
		case len(data) > 0 && data[0] == '3':
			s.nmea.navigation = navigation3D
		default:
			next = seqSkip
		}

	case seqGSAPDOP:
		if len(data) == 0 {
			s.nmea.mask &^= fieldMaskPDOP
		} else if pdop, ok := nmeaParseFixed(data, 2); ok {
			s.location.PDOP = uint16(pdop)
		} else {
			next = seqSkip
		}

	case seqGSAHDOP:
		// skip field; HDOP is taken from GGA

	case seqGSAVDOP:
		if len(data) == 0 {
			s.nmea.mask &^= fieldMaskVDOP
			next = seqGSAEnd
		} else if vdop, ok := nmeaParseFixed(data, 2); ok {
			s.location.VDOP = uint16(vdop)
			next = seqGSAEnd
		} else {
			next = seqSkip
		}

	default: // seqGSAUsedPRN1..12
		if len(data) != 0 {
			if svid, ok := nmeaParseUnsigned(data); ok {
				if svid >= 1 && svid <= 96 {
					s.nmea.svUsedMask[(svid-1)>>5] |= 1 << ((svid - 1) & 31)
					s.nmea.svUsedCount++
				}
			} else {
				s.nmea.clearUsed()
				next = seqSkip
			}
		}
	}

	return next
}

func (s *Session) nmeaFieldGST(seq uint8, data []byte) uint8 {
	next := seq + 1

	switch seq {
	case seqGSTTime:
		return s.nmeaFieldTime(data, next)

	case seqGSTRange, seqGSTStddevMajor, seqGSTStddevMinor, seqGSTOrientation:
		// skip field

	case seqGSTStddevLatitude:
		if len(data) == 0 {
			s.nmea.mask &^= fieldMaskEHPE
		} else if stddev, ok := nmeaParseFixed(data, 3); ok {
			s.location.EHPE = stddev
		} else {
			next = seqSkip
		}

	case seqGSTStddevLongitude:
		if len(data) == 0 {
			s.nmea.mask &^= fieldMaskEHPE
		} else if stddev, ok := nmeaParseFixed(data, 3); ok {
			s.location.EHPE = isqrt(s.location.EHPE*s.location.EHPE + stddev*stddev)
		} else {
			next = seqSkip
		}

	case seqGSTStddevAltitude:
		if len(data) == 0 {
			s.nmea.mask &^= fieldMaskEVPE
			next = seqGSTEnd
		} else if stddev, ok := nmeaParseFixed(data, 3); ok {
			s.location.EVPE = stddev
			next = seqGSTEnd
		} else {
			next = seqSkip
		}
	}

	return next
}

func (s *Session) nmeaFieldGSV(seq uint8, data []byte) uint8 {
	next := seq + 1
	ctx := &s.nmea

	switch seq {
	case seqGSVSentences:
		sentences, ok := nmeaParseUnsigned(data)
		if len(data) == 0 || !ok {
			return seqSkip
		}
		if ctx.svInViewSentences == 0 {
			ctx.svInViewSentences = sentences
			ctx.svInViewCount = 0
			ctx.svInViewIndex = 0
		} else if ctx.svInViewSentences != sentences {
			ctx.svInViewSentences = 0
			return seqSkip
		}

	case seqGSVCurrent:
		current, ok := nmeaParseUnsigned(data)
		if len(data) == 0 || !ok {
			ctx.svInViewSentences = 0
			return seqSkip
		}
		// Each sentence carries exactly four in-view quads; an
		// out-of-order sentence discards the whole GSV cycle.
		if ctx.svInViewIndex != (current-1)<<2 {
			ctx.svInViewSentences = 0
			return seqSkip
		}

	case seqGSVInViewCount:
		count, ok := nmeaParseUnsigned(data)
		if len(data) == 0 || !ok {
			ctx.svInViewSentences = 0
			return seqSkip
		}
		ctx.svInViewCount = count
		if count == 0 {
			next = seqGSVEnd
		}

	case seqGSVInViewID:
		svid := uint32(255)
		if len(data) != 0 {
			var ok bool
			if svid, ok = nmeaParseUnsigned(data); !ok {
				ctx.svInViewSentences = 0
				return seqSkip
			}
		}
		if s.satellites.Count < SatellitesCountMax {
			s.satellites.Info[s.satellites.Count] = Satellite{
				PRN:   uint8(svid),
				State: SatelliteStateSearching,
			}
		}

	case seqGSVInViewElev:
		elevation := uint32(0)
		if len(data) != 0 {
			var ok bool
			if elevation, ok = nmeaParseUnsigned(data); !ok {
				ctx.svInViewSentences = 0
				return seqSkip
			}
		}
		if s.satellites.Count < SatellitesCountMax {
			s.satellites.Info[s.satellites.Count].Elevation = uint8(elevation)
		}

	case seqGSVInViewAzim:
		azimuth := uint32(0)
		if len(data) != 0 {
			var ok bool
			if azimuth, ok = nmeaParseUnsigned(data); !ok {
				ctx.svInViewSentences = 0
				return seqSkip
			}
		}
		if s.satellites.Count < SatellitesCountMax {
			s.satellites.Info[s.satellites.Count].Azimuth = uint16(azimuth)
		}

	case seqGSVInViewSNR:
		snr, ok := nmeaParseUnsigned(data)
		if len(data) != 0 && !ok {
			ctx.svInViewSentences = 0
			return seqSkip
		}
		// An empty SNR means the satellite is searched but not received.
		if len(data) != 0 && s.satellites.Count < SatellitesCountMax {
			s.satellites.Info[s.satellites.Count].State = SatelliteStateTracking
			s.satellites.Info[s.satellites.Count].SNR = uint8(snr)
		}

		s.satellites.Count++
		ctx.svInViewIndex++

		if ctx.svInViewIndex == ctx.svInViewCount || ctx.svInViewIndex&3 == 0 {
			next = seqGSVEnd
		} else {
			next = seqGSVInViewID
		}
	}

	return next
}

func (s *Session) nmeaFieldRMC(seq uint8, data []byte) uint8 {
	next := seq + 1

	switch seq {
	case seqRMCTime:
		return s.nmeaFieldTime(data, next)

	case seqRMCStatus:
		if len(data) > 0 && data[0] == 'A' {
			s.nmea.status = statusDataValid
		} else if len(data) > 0 && data[0] == 'V' {
			s.nmea.status = statusReceiverWarning
		} else {
			next = seqSkip
		}

	case seqRMCLatitude, seqRMCLatitudeNS, seqRMCLongitude, seqRMCLongitudeEW,
		seqRMCVariation, seqRMCVariationUnit:
		// skip field; position is taken from GGA

	case seqRMCSpeed:
		if len(data) == 0 {
			s.nmea.mask &^= fieldMaskSpeed
		} else if speed, ok := nmeaParseFixed(data, 3); ok {
			// Knots to mm/s is 1852 / 3600, rounded.
			s.location.Speed = int32((speed*1852 + 1800) / 3600)
		} else {
			next = seqSkip
		}

	case seqRMCCourse:
		if len(data) == 0 {
			s.nmea.mask &^= fieldMaskCourse
		} else if course, ok := nmeaParseFixed(data, 5); ok {
			s.location.Course = int32(course)
		} else {
			next = seqSkip
		}

	case seqRMCDate:
		if len(data) == 0 {
			s.nmea.mask &^= fieldMaskTime
		} else if date, ok := nmeaParseUnsigned(data); ok {
			day := date / 10000
			month := (date - day*10000) / 100
			year := date - day*10000 - month*100

			s.location.Time.Day = uint8(day)
			s.location.Time.Month = uint8(month)
			if year < 80 {
				s.location.Time.Year = uint8((2000 + year) - 1980)
			} else {
				s.location.Time.Year = uint8((1900 + year) - 1980)
			}
		} else {
			next = seqSkip
		}

	case seqRMCMode:
		next = seqRMCEnd
	}

	return next
}

func (s *Session) nmeaFieldPMTK001(seq uint8, data []byte) uint8 {
	next := seq + 1

	switch seq {
	case seqPMTK001Command:
		command, ok := nmeaParseUnsigned(data)
		if len(data) == 0 || !ok {
			next = seqSkip
		} else {
			s.nmea.mtkCommand = uint16(command)
		}

	case seqPMTK001Status:
		status, ok := nmeaParseUnsigned(data)
		if len(data) == 0 || !ok {
			next = seqSkip
		} else {
			s.nmea.mtkStatus = uint16(status)
			next = seqPMTK001End
		}
	}

	return next
}

// parseSignedFixed wraps nmeaParseFixed for the fields that may carry a
// leading minus (altitude, separation).
func parseSignedFixed(data []byte, scale uint32) (uint32, bool, bool) {
	neg := false
	if len(data) > 0 && data[0] == '-' {
		neg = true
		data = data[1:]
	}
	v, ok := nmeaParseFixed(data, scale)
	return v, neg, ok
}

// nmeaEndSentence runs after a sentence passed its checksum and CR/LF.
// It promotes the sentence's field masks into the location, updates the
// seen/expected bookkeeping and checks the fusion gates.
func (s *Session) nmeaEndSentence() {
	ctx := &s.nmea

	switch ctx.sequence {
	case seqGGAEnd:
		if ctx.mask&fieldMaskPosition != 0 {
			s.location.Mask |= LocationMaskPosition
		}
		if ctx.mask&fieldMaskAltitude != 0 {
			s.location.Mask |= LocationMaskAltitude
		}
		if ctx.mask&fieldMaskHDOP != 0 {
			s.location.Mask |= LocationMaskHDOP
		}

		s.seen |= seenGPGGA
		s.seen &^= seenSolution

	case seqGSAEnd:
		if ctx.mask&fieldMaskPDOP != 0 {
			s.location.Mask |= LocationMaskPDOP
		}
		if ctx.mask&fieldMaskVDOP != 0 {
			s.location.Mask |= LocationMaskVDOP
		}

		// A GN talker announces a composite fix: two GSA frames plus
		// both a GPGSV and a GLGSV cycle. GP or GL alone narrows the
		// expected set to that one constellation.
		switch ctx.prefix {
		case 'N':
			s.expected |= seenGPGSA | seenGPGSV | seenGLGSA | seenGLGSV
			if s.seen&seenGPGSA == 0 {
				s.seen |= seenGPGSA
			} else {
				s.seen |= seenGLGSA
				s.seen &^= seenSolution
			}
		case 'L':
			s.expected = s.expected&^(seenGPGSA|seenGPGSV) | seenGLGSA | seenGLGSV
			s.seen |= seenGLGSA
			s.seen &^= seenSolution
		default:
			s.expected = s.expected&^(seenGLGSA|seenGLGSV) | seenGPGSA | seenGPGSV
			s.seen |= seenGPGSA
			s.seen &^= seenSolution
		}

	case seqGSTEnd:
		// Once a receiver proves it emits GST, require it every epoch.
		s.expected |= seenGPGST

		if ctx.mask&fieldMaskEHPE != 0 {
			s.location.Mask |= LocationMaskEHPE
		}
		if ctx.mask&fieldMaskEVPE != 0 {
			s.location.Mask |= LocationMaskEVPE
		}

		s.seen |= seenGPGST
		s.seen &^= seenSolution

	case seqGSVEnd:
		if ctx.svInViewCount == ctx.svInViewIndex {
			ctx.svInViewSentences = 0
			if ctx.prefix == 'P' {
				s.seen |= seenGPGSV
			}
			if ctx.prefix == 'L' {
				s.seen |= seenGLGSV
			}
		}

	case seqRMCMode, seqRMCEnd:
		// Pre-NMEA-2.3 receivers end RMC at the variation unit; accept
		// the sentence with or without the trailing mode field.
		if ctx.mask&fieldMaskTime != 0 {
			s.location.Mask |= LocationMaskTime
		}
		if ctx.mask&fieldMaskSpeed != 0 {
			s.location.Mask |= LocationMaskSpeed
		}
		if ctx.mask&fieldMaskCourse != 0 {
			s.location.Mask |= LocationMaskCourse
		}

		s.seen |= seenGPRMC
		s.seen &^= seenSolution

	case seqPMTK001End:
		if uint32(ctx.mtkCommand) == s.command {
			s.command = commandNone
			response := responseNACK
			if ctx.mtkStatus == 3 {
				response = responseACK
			}
			s.mtkConfigure(response, uint32(ctx.mtkCommand))
		}
	}

	ctx.sequence = seqStart

	if s.init != initDone {
		return
	}

	expected := s.expected & (seenGPGGA | seenGPGSA | seenGPGST | seenGPRMC | seenGLGSA)

	if s.seen&expected == expected {
		if ctx.status == statusDataValid && ctx.navigation != navigationNone {
			if ctx.navigation == navigation2D {
				s.location.Type = LocationType2D
			} else {
				s.location.Type = LocationType3D
			}
			s.location.NumSV = ctx.svUsedCount
		} else {
			s.location.Type = LocationTypeNone
			s.location.NumSV = 0
			ctx.clearUsed()
		}

		s.emitLocation()

		s.seen &^= seenGPGGA | seenGPGSA | seenGPGST | seenGPRMC | seenGLGSA
		s.seen |= seenSolution
	}

	expected = s.expected & (seenGPGSV | seenGLGSV)

	if s.seen&seenSolution != 0 && s.seen&expected == expected {
		for n := 0; n < s.satellites.Count && n < SatellitesCountMax; n++ {
			if ctx.usedPRN(uint32(s.satellites.Info[n].PRN)) {
				s.satellites.Info[n].State |= SatelliteStateNavigating
			}
		}

		s.emitSatellites()

		s.seen &^= seenGPGSV | seenGLGSV
	}
}
