package gnss

import (
	"bytes"
	"testing"
)

var fixEpochSentences = []string{
	"GPRMC,074155.799,A,3723.2475,N,12158.3416,W,0.5,180.0,010118,,",
	"GPGGA,074155.799,3723.2475,N,12158.3416,W,1,08,0.9,50.0,M,-30.0,M,,",
	"GPGSA,A,3,01,02,03,,,,,,,,,,1.8,0.9,1.5",
	"GPGSV,1,1,03,01,40,050,30,02,30,100,25,03,20,150,",
}

func feedSentences(s *Session, payloads ...string) {
	for _, p := range payloads {
		s.Receive(nmeaSentence(p))
	}
}

func TestMinimalFix(t *testing.T) {
	var c fixCollector
	s := newNMEASession(&c)

	feedSentences(s, fixEpochSentences...)

	if len(c.locations) != 1 {
		t.Fatalf("got %d location callbacks, want 1", len(c.locations))
	}
	if len(c.satellites) != 1 {
		t.Fatalf("got %d satellite callbacks, want 1", len(c.satellites))
	}

	loc := c.locations[0]
	if loc.Type != LocationType3D {
		t.Errorf("type = %d, want 3D", loc.Type)
	}
	if loc.Quality != LocationQualityAutonomous {
		t.Errorf("quality = %d, want autonomous", loc.Quality)
	}
	if loc.Latitude != 373874583 {
		t.Errorf("latitude = %d, want 373874583", loc.Latitude)
	}
	if loc.Longitude != -1219723600 {
		t.Errorf("longitude = %d, want -1219723600", loc.Longitude)
	}
	if loc.Altitude != 50000 || loc.Separation != -30000 {
		t.Errorf("altitude/separation = %d/%d, want 50000/-30000", loc.Altitude, loc.Separation)
	}
	if loc.Speed != 257 {
		t.Errorf("speed = %d, want 257", loc.Speed)
	}
	if loc.Course != 18000000 {
		t.Errorf("course = %d, want 18000000", loc.Course)
	}
	if loc.HDOP != 90 || loc.PDOP != 180 || loc.VDOP != 150 {
		t.Errorf("dop = %d/%d/%d, want 90/180/150", loc.HDOP, loc.PDOP, loc.VDOP)
	}
	if loc.NumSV != 3 {
		t.Errorf("numsv = %d, want 3", loc.NumSV)
	}
	if loc.Time.Year != 38 || loc.Time.Month != 1 || loc.Time.Day != 1 {
		t.Errorf("date = %d-%02d-%02d, want 38-01-01", loc.Time.Year, loc.Time.Month, loc.Time.Day)
	}
	if loc.Time.Hour != 7 || loc.Time.Minute != 41 || loc.Time.Second != 55 || loc.Time.Millis != 799 {
		t.Errorf("time = %02d:%02d:%02d.%03d", loc.Time.Hour, loc.Time.Minute, loc.Time.Second, loc.Time.Millis)
	}

	sats := c.satellites[0]
	if sats.Count != 3 {
		t.Fatalf("satellite count = %d, want 3", sats.Count)
	}
	want := []Satellite{
		{PRN: 1, State: SatelliteStateTracking | SatelliteStateNavigating, SNR: 30, Elevation: 40, Azimuth: 50},
		{PRN: 2, State: SatelliteStateTracking | SatelliteStateNavigating, SNR: 25, Elevation: 30, Azimuth: 100},
		{PRN: 3, State: SatelliteStateSearching | SatelliteStateNavigating, SNR: 0, Elevation: 20, Azimuth: 150},
	}
	for i, w := range want {
		if sats.Info[i] != w {
			t.Errorf("satellite %d = %+v, want %+v", i, sats.Info[i], w)
		}
	}
}

func TestCrossEpochRejected(t *testing.T) {
	var c fixCollector
	s := newNMEASession(&c)

	feedSentences(s,
		fixEpochSentences[0],
		"GPGGA,074155.800,3723.2475,N,12158.3416,W,1,08,0.9,50.0,M,-30.0,M,,",
		fixEpochSentences[2],
		fixEpochSentences[3],
	)

	if len(c.locations) != 0 {
		t.Fatalf("got %d location callbacks, want 0", len(c.locations))
	}
	if len(c.satellites) != 0 {
		t.Fatalf("got %d satellite callbacks, want 0", len(c.satellites))
	}

	// The epoch opened by the mismatching GGA completes with the next
	// matching RMC.
	feedSentences(s,
		"GPRMC,074155.800,A,3723.2475,N,12158.3416,W,0.5,180.0,010118,,",
		"GPGSA,A,3,01,02,03,,,,,,,,,,1.8,0.9,1.5",
	)
	if len(c.locations) != 1 {
		t.Fatalf("got %d location callbacks after recovery, want 1", len(c.locations))
	}
}

func TestBadChecksumSuppressed(t *testing.T) {
	var c fixCollector
	s := newNMEASession(&c)

	for _, p := range fixEpochSentences {
		line := nmeaSentence(p)
		// Corrupt the checksum digits.
		line[len(line)-4] = '0'
		line[len(line)-3] = '0'
		s.Receive(line)
	}

	if len(c.locations) != 0 || len(c.satellites) != 0 {
		t.Fatalf("callbacks fired from checksum-failed sentences")
	}

	// The framer resynchronises; a clean epoch still goes through.
	feedSentences(s, fixEpochSentences...)
	if len(c.locations) != 1 || len(c.satellites) != 1 {
		t.Fatalf("no recovery after checksum errors: %d/%d", len(c.locations), len(c.satellites))
	}
}

func TestGarbageInputBounded(t *testing.T) {
	var c fixCollector
	s := newNMEASession(&c)

	garbage := make([]byte, 4096)
	for i := range garbage {
		garbage[i] = byte(i * 7)
	}
	s.Receive(garbage)

	// An over-long sentence is discarded.
	long := append([]byte("$GPGGA,"), bytes.Repeat([]byte{'1'}, 500)...)
	s.Receive(long)
	s.Receive([]byte("*00\r\n"))

	if len(c.locations) != 0 {
		t.Fatalf("garbage produced callbacks")
	}

	feedSentences(s, fixEpochSentences...)
	if len(c.locations) != 1 {
		t.Fatalf("no recovery after garbage")
	}
}

func TestCompositeTalkerWidensExpected(t *testing.T) {
	var c fixCollector
	s := newNMEASession(&c)

	feedSentences(s,
		"GNRMC,074155.799,A,3723.2475,N,12158.3416,W,0.5,180.0,010118,,",
		"GNGGA,074155.799,3723.2475,N,12158.3416,W,1,08,0.9,50.0,M,-30.0,M,,",
		"GNGSA,A,3,01,02,03,,,,,,,,,,1.8,0.9,1.5",
		"GNGSA,A,3,65,66,,,,,,,,,,,1.8,0.9,1.5",
	)

	if s.expected&(seenGPGSA|seenGPGSV|seenGLGSA|seenGLGSV) !=
		seenGPGSA|seenGPGSV|seenGLGSA|seenGLGSV {
		t.Fatalf("expected mask = %#x, want the four-sentence superset", s.expected)
	}

	if len(c.locations) != 1 {
		t.Fatalf("got %d location callbacks, want 1", len(c.locations))
	}

	// Satellites wait for both constellation GSV cycles.
	feedSentences(s, "GPGSV,1,1,02,01,40,050,30,02,30,100,25")
	if len(c.satellites) != 0 {
		t.Fatalf("satellites emitted before the GLONASS cycle")
	}
	feedSentences(s, "GLGSV,1,1,02,65,40,050,30,66,30,100,25")
	if len(c.satellites) != 1 {
		t.Fatalf("got %d satellite callbacks, want 1", len(c.satellites))
	}

	sats := c.satellites[0]
	if sats.Count != 4 {
		t.Fatalf("satellite count = %d, want 4", sats.Count)
	}
	for i, want := range []uint8{1, 2, 65, 66} {
		if sats.Info[i].PRN != want {
			t.Errorf("satellite %d prn = %d, want %d", i, sats.Info[i].PRN, want)
		}
		if sats.Info[i].State&SatelliteStateNavigating == 0 {
			t.Errorf("satellite prn %d not navigating", want)
		}
	}
}

func TestSingleTalkerNarrowsExpected(t *testing.T) {
	var c fixCollector
	s := newNMEASession(&c)
	s.expected |= seenGLGSA | seenGLGSV

	feedSentences(s,
		fixEpochSentences[1],
		fixEpochSentences[2],
	)

	if s.expected&(seenGLGSA|seenGLGSV) != 0 {
		t.Fatalf("expected mask = %#x, GLONASS bits not narrowed away", s.expected)
	}
}

func TestGSVOutOfOrderRejected(t *testing.T) {
	var c fixCollector
	s := newNMEASession(&c)

	feedSentences(s,
		fixEpochSentences[0],
		fixEpochSentences[1],
		fixEpochSentences[2],
	)
	if len(c.locations) != 1 {
		t.Fatalf("location not emitted")
	}

	// Sentence 2 of 3 is skipped; the cycle must be discarded.
	feedSentences(s,
		"GPGSV,3,1,09,01,40,050,30,02,30,100,25,03,20,150,18,04,10,200,12",
		"GPGSV,3,3,09,09,05,300,08",
	)

	if len(c.satellites) != 0 {
		t.Fatalf("satellite callback fired for an out-of-order GSV cycle")
	}
}

func TestGSTContributesAndBecomesRequired(t *testing.T) {
	var c fixCollector
	s := newNMEASession(&c)

	feedSentences(s,
		fixEpochSentences[0],
		fixEpochSentences[1],
		"GPGST,074155.799,25.0,3.2,2.1,12.0,3.0,4.0,5.0",
		fixEpochSentences[2],
	)

	if len(c.locations) != 1 {
		t.Fatalf("got %d location callbacks, want 1", len(c.locations))
	}

	// EHPE combines the lat/lon standard deviations: sqrt(3000^2+4000^2).
	if c.locations[0].EHPE != 5000 {
		t.Errorf("ehpe = %d, want 5000", c.locations[0].EHPE)
	}
	if c.locations[0].EVPE != 5000 {
		t.Errorf("evpe = %d, want 5000", c.locations[0].EVPE)
	}

	// Having proven GST once, the next epoch must carry it again.
	feedSentences(s,
		"GPRMC,074156.799,A,3723.2475,N,12158.3416,W,0.5,180.0,010118,,",
		"GPGGA,074156.799,3723.2475,N,12158.3416,W,1,08,0.9,50.0,M,-30.0,M,,",
		"GPGSA,A,3,01,02,03,,,,,,,,,,1.8,0.9,1.5",
	)
	if len(c.locations) != 1 {
		t.Fatalf("location emitted without the now-required GST")
	}

	feedSentences(s, "GPGST,074156.799,25.0,3.2,2.1,12.0,3.0,4.0,5.0")
	if len(c.locations) != 2 {
		t.Fatalf("location not emitted once GST arrived")
	}
}

func TestInvalidFixSuppressesNavigation(t *testing.T) {
	var c fixCollector
	s := newNMEASession(&c)

	feedSentences(s,
		"GPRMC,074155.799,V,3723.2475,N,12158.3416,W,0.5,180.0,010118,,",
		fixEpochSentences[1],
		fixEpochSentences[2],
	)

	if len(c.locations) != 1 {
		t.Fatalf("got %d location callbacks, want 1", len(c.locations))
	}
	loc := c.locations[0]
	if loc.Type != LocationTypeNone {
		t.Errorf("type = %d, want none for a receiver warning", loc.Type)
	}
	if loc.NumSV != 0 {
		t.Errorf("numsv = %d, want 0", loc.NumSV)
	}
	// With no position, the defaults apply.
	if loc.Latitude != 0 || loc.Longitude != 0 {
		t.Errorf("lat/lon = %d/%d, want zeroed", loc.Latitude, loc.Longitude)
	}
	if loc.PDOP != 9999 || loc.HDOP != 9999 || loc.VDOP != 9999 {
		t.Errorf("dop = %d/%d/%d, want 9999 defaults", loc.PDOP, loc.HDOP, loc.VDOP)
	}
}

func TestFieldParseErrorSinksSentence(t *testing.T) {
	var c fixCollector
	s := newNMEASession(&c)

	// The broken latitude sinks the GGA; the epoch never completes.
	feedSentences(s,
		fixEpochSentences[0],
		"GPGGA,074155.799,37x3.2475,N,12158.3416,W,1,08,0.9,50.0,M,-30.0,M,,",
		fixEpochSentences[2],
	)

	if len(c.locations) != 0 {
		t.Fatalf("location emitted from a sunk sentence")
	}
}
