/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	location.go: fix and constellation snapshot types shared between the
	protocol engines and the callbacks.
*/

package gnss

// Fix type reported in Location.Type.
const (
	LocationTypeNone = iota
	LocationTypeTime
	LocationType2D
	LocationType3D
)

// Fix quality reported in Location.Quality. The values coincide with the
// NMEA GGA quality indicator so the GGA field can be stored verbatim.
const (
	LocationQualityNone = iota
	LocationQualityAutonomous
	LocationQualityDifferential
	LocationQualityPrecise
	LocationQualityRTKFixed
	LocationQualityRTKFloat
	LocationQualityEstimated
)

// Bits of Location.Mask. A clear bit means the field carries its default,
// not receiver data.
const (
	LocationMaskTime = 1 << iota
	LocationMaskCorrection
	LocationMaskPosition
	LocationMaskAltitude
	LocationMaskSpeed
	LocationMaskCourse
	LocationMaskClimb
	LocationMaskEHPE
	LocationMaskEVPE
	LocationMaskPDOP
	LocationMaskHDOP
	LocationMaskVDOP
)

// UtcTime is a broken-down UTC timestamp. Year counts from 1980, Second
// may be 60 during a leap second.
type UtcTime struct {
	Year   uint8
	Month  uint8
	Day    uint8
	Hour   uint8
	Minute uint8
	Second uint8
	Millis uint16
}

// Location is one fused fix epoch. Latitude/longitude are 1e-7 degrees,
// altitude/separation/climb are millimeters, speed is mm/s, course is
// 1e-5 degrees, EHPE/EVPE are millimeters, DOPs are scaled by 100 and
// Correction is the GPS-UTC leap second count.
type Location struct {
	Type       uint8
	Quality    uint8
	Mask       uint16
	NumSV      uint8
	Latitude   int32
	Longitude  int32
	Altitude   int32
	Separation int32
	Speed      int32
	Course     int32
	Climb      int32
	EHPE       uint32
	EVPE       uint32
	PDOP       uint16
	HDOP       uint16
	VDOP       uint16
	Correction int16
	Time       UtcTime
}

// Satellite tracking state bits.
const (
	SatelliteStateSearching  = 0x00
	SatelliteStateTracking   = 0x01
	SatelliteStateNavigating = 0x02
	SatelliteStateCorrection = 0x04
)

// Satellite is one entry of a constellation snapshot. PRN is the
// canonical satellite number (see ubx.go for the u-blox id mapping).
type Satellite struct {
	PRN       uint8
	State     uint8
	SNR       uint8
	Elevation uint8
	Azimuth   uint16
}

// SatellitesCountMax bounds a constellation snapshot.
const SatellitesCountMax = 32

// Satellites is the constellation snapshot passed to the satellites
// callback. Count may have been clamped to SatellitesCountMax.
type Satellites struct {
	Count int
	Info  [SatellitesCountMax]Satellite
}

// emitLocation finalizes the working location against its mask and fires
// the location callback. Fields whose mask bit never got set are forced
// to their defaults (DOPs to 9999, time to the GPS epoch 1980-01-06).
func (s *Session) emitLocation() {
	loc := &s.location

	switch loc.Type {
	case LocationTypeNone:
		loc.Mask = 0
		loc.NumSV = 0
		loc.Quality = LocationQualityNone

	case LocationTypeTime:
		loc.Mask &= LocationMaskTime | LocationMaskCorrection
		loc.Quality = LocationQualityNone

	case LocationType2D:
		loc.Mask &= LocationMaskTime | LocationMaskCorrection |
			LocationMaskPosition | LocationMaskSpeed | LocationMaskCourse |
			LocationMaskEHPE | LocationMaskHDOP

	case LocationType3D:
	}

	if loc.Mask&LocationMaskTime != 0 {
		if loc.Mask&LocationMaskCorrection == 0 {
			loc.Correction = 0
		}
	} else {
		loc.Time = UtcTime{Year: 1980 - 1980, Month: 1, Day: 6}
		loc.Correction = 0
		loc.Mask = 0
		loc.NumSV = 0
	}

	if loc.Mask&LocationMaskPosition == 0 {
		loc.Latitude = 0
		loc.Longitude = 0
	}
	if loc.Mask&LocationMaskAltitude == 0 {
		loc.Altitude = 0
		loc.Separation = 0
	}
	if loc.Mask&LocationMaskSpeed == 0 {
		loc.Speed = 0
	}
	if loc.Mask&LocationMaskCourse == 0 {
		loc.Course = 0
	}
	if loc.Mask&LocationMaskClimb == 0 {
		loc.Climb = 0
	}
	if loc.Mask&LocationMaskEHPE == 0 {
		loc.EHPE = 0
	}
	if loc.Mask&LocationMaskEVPE == 0 {
		loc.EVPE = 0
	}
	if loc.Mask&LocationMaskPDOP == 0 {
		loc.PDOP = 9999
	}
	if loc.Mask&LocationMaskHDOP == 0 {
		loc.HDOP = 9999
	}
	if loc.Mask&LocationMaskVDOP == 0 {
		loc.VDOP = 9999
	}

	if s.onLocation != nil {
		s.onLocation(loc)
	}

	loc.Type = LocationTypeNone
	loc.Mask = 0
}

// emitSatellites fires the satellites callback, clamping the snapshot to
// capacity first.
func (s *Session) emitSatellites() {
	if s.satellites.Count > SatellitesCountMax {
		s.satellites.Count = SatellitesCountMax
	}
	if s.onSatellites != nil {
		s.onSatellites(&s.satellites)
	}
}
