package gnss

import (
	"encoding/binary"
	"testing"
)

func putU16(b []byte, off int, v uint16) { binary.LittleEndian.PutUint16(b[off:], v) }
func putU32(b []byte, off int, v uint32) { binary.LittleEndian.PutUint32(b[off:], v) }
func putI32(b []byte, off int, v int32)  { binary.LittleEndian.PutUint32(b[off:], uint32(v)) }

func navPVT(itow uint32) []byte {
	p := make([]byte, 84)
	putU32(p, 0, itow)
	putU16(p, 4, 2018) // year
	p[6] = 7           // month
	p[7] = 1           // day
	p[8] = 12
	p[9] = 30
	p[10] = 45
	p[11] = 0x03 // date and time valid
	putI32(p, 16, 250000000)
	p[20] = 0x03 // 3D fix
	p[21] = 0x01 // gnssFixOK
	p[23] = 9    // numSV
	putI32(p, 24, -1219723600)
	putI32(p, 28, 373874583)
	putI32(p, 32, 80000)  // height above ellipsoid
	putI32(p, 36, 110000) // height above MSL
	putU32(p, 40, 5000)   // hAcc
	putU32(p, 44, 8000)   // vAcc
	putI32(p, 56, -120)   // velD
	putI32(p, 60, 257)    // gSpeed
	putI32(p, 64, 18000000)
	return ubxFrame(0x01, 0x07, p)
}

func navDOP(itow uint32) []byte {
	p := make([]byte, 18)
	putU32(p, 0, itow)
	putU16(p, 6, 180)  // pdop
	putU16(p, 10, 150) // vdop
	putU16(p, 12, 90)  // hdop
	return ubxFrame(0x01, 0x04, p)
}

func navTimeGPS(itow uint32) []byte {
	p := make([]byte, 16)
	putU32(p, 0, itow)
	putU16(p, 8, 2010) // week
	p[10] = 18         // leap seconds
	p[11] = 0x07
	return ubxFrame(0x01, 0x20, p)
}

type svinfoRecord struct {
	svid    byte
	flags   byte
	quality byte
	cno     byte
	elev    int8
	azim    int16
}

func navSVInfo(itow uint32, records []svinfoRecord) []byte {
	p := make([]byte, 8+12*len(records))
	putU32(p, 0, itow)
	p[4] = byte(len(records))
	for i, r := range records {
		off := 8 + 12*i
		p[off] = byte(i) // chn
		p[off+1] = r.svid
		p[off+2] = r.flags
		p[off+3] = r.quality
		p[off+4] = r.cno
		p[off+5] = byte(r.elev)
		binary.LittleEndian.PutUint16(p[off+6:], uint16(r.azim))
	}
	return ubxFrame(0x01, 0x30, p)
}

// newUbloxSession walks a session through the whole init table by
// acknowledging every frame it sends.
func newUbloxSession(t *testing.T, c *fixCollector) (*Session, *frameSender, *manualTimer) {
	t.Helper()

	snd := &frameSender{}
	tmr := &manualTimer{}
	s := NewSession(Config{
		Mode:         ModeUblox,
		Rate:         1,
		Baud:         115200,
		Sender:       snd,
		Timer:        tmr,
		OnLocation:   c.location,
		OnSatellites: c.sats,
	})

	if string(snd.last()) != "$PUBX,41,1,0007,0003,115200,0*18\r\n" {
		t.Fatalf("baud sentence = %q", snd.last())
	}

	// Any cleanly framed sentence on the new baud completes the
	// handshake and starts the table replay.
	s.Receive(nmeaSentence("GPTXT,01,01,02,ANTSTATUS=OK"))
	ackAll(t, s, snd)
	return s, snd, tmr
}

// ackAll acknowledges every in-flight frame until the table drains.
func ackAll(t *testing.T, s *Session, snd *frameSender) {
	t.Helper()

	for i := 0; i < 64 && !s.Done(); i++ {
		class, id := frameClassID(snd.last())
		snd.complete()
		s.Receive(ubxFrame(0x05, 0x01, []byte{class, id}))
	}
	snd.complete()
	if !s.Done() {
		t.Fatalf("command table never completed")
	}
}

func TestUbloxInitTableReplay(t *testing.T) {
	var c fixCollector
	s, snd, _ := newUbloxSession(t, &c)

	// Baud sentence plus the full 1 Hz table.
	if want := 1 + len(ubxInitTable1Hz); len(snd.frames) != want {
		t.Fatalf("sent %d frames, want %d", len(snd.frames), want)
	}
	for i, entry := range ubxInitTable1Hz {
		if string(snd.frames[1+i]) != string(entry) {
			t.Fatalf("table entry %d not transmitted verbatim", i)
		}
	}

	if s.expected != seenNavDOP|seenNavPVT|seenNavSVInfo|seenNavTimeGPS {
		t.Fatalf("expected mask = %#x after init", s.expected)
	}
}

func TestAckTimeoutResends(t *testing.T) {
	snd := &frameSender{}
	tmr := &manualTimer{}
	s := NewSession(Config{Mode: ModeUblox, Rate: 1, Baud: 9600, Sender: snd, Timer: tmr})

	s.Receive(nmeaSentence("GPTXT,01,01,02,ANTSTATUS=OK"))

	first := append([]byte(nil), snd.last()...)
	if !tmr.running {
		t.Fatalf("ack timer not armed after the first table frame")
	}
	snd.complete()

	// No acknowledgement: the timeout must retransmit the identical
	// frame and re-arm.
	tmr.fire()
	if string(snd.last()) != string(first) {
		t.Fatalf("timeout resend differs from the original frame")
	}
	if !tmr.running {
		t.Fatalf("ack timer not re-armed after resend")
	}
	starts := tmr.starts

	// The acknowledgement advances the table to the next entry.
	snd.complete()
	class, id := frameClassID(snd.last())
	s.Receive(ubxFrame(0x05, 0x01, []byte{class, id}))
	if string(snd.last()) == string(first) {
		t.Fatalf("table did not advance after the acknowledgement")
	}
	if tmr.starts != starts+1 {
		t.Fatalf("timer not restarted for the next entry")
	}
	if tmr.stops == 0 {
		t.Fatalf("timer never stopped on the acknowledgement")
	}
}

func TestNackAdvancesTable(t *testing.T) {
	snd := &frameSender{}
	tmr := &manualTimer{}
	s := NewSession(Config{Mode: ModeUblox, Rate: 1, Baud: 9600, Sender: snd, Timer: tmr})

	s.Receive(nmeaSentence("GPTXT,01,01,02,ANTSTATUS=OK"))
	first := append([]byte(nil), snd.last()...)
	snd.complete()

	class, id := frameClassID(snd.last())
	s.Receive(ubxFrame(0x05, 0x00, []byte{class, id})) // ACK-NACK

	if string(snd.last()) == string(first) {
		t.Fatalf("table did not advance after a NACK")
	}
}

func TestUbloxFusedEpoch(t *testing.T) {
	var c fixCollector
	s, _, _ := newUbloxSession(t, &c)

	const itow = 123456000
	s.Receive(navPVT(itow))
	s.Receive(navDOP(itow))
	if len(c.locations) != 0 {
		t.Fatalf("location emitted before TIMEGPS")
	}
	s.Receive(navTimeGPS(itow))
	if len(c.locations) != 1 {
		t.Fatalf("got %d location callbacks, want 1", len(c.locations))
	}

	loc := c.locations[0]
	if loc.Type != LocationType3D || loc.Quality != LocationQualityAutonomous {
		t.Errorf("type/quality = %d/%d", loc.Type, loc.Quality)
	}
	if loc.Latitude != 373874583 || loc.Longitude != -1219723600 {
		t.Errorf("lat/lon = %d/%d", loc.Latitude, loc.Longitude)
	}
	if loc.Altitude != 110000 || loc.Separation != -30000 {
		t.Errorf("altitude/separation = %d/%d, want 110000/-30000", loc.Altitude, loc.Separation)
	}
	if loc.Speed != 257 || loc.Course != 18000000 || loc.Climb != 120 {
		t.Errorf("speed/course/climb = %d/%d/%d", loc.Speed, loc.Course, loc.Climb)
	}
	if loc.EHPE != 5000 || loc.EVPE != 8000 {
		t.Errorf("ehpe/evpe = %d/%d", loc.EHPE, loc.EVPE)
	}
	if loc.PDOP != 180 || loc.HDOP != 90 || loc.VDOP != 150 {
		t.Errorf("dop = %d/%d/%d", loc.PDOP, loc.HDOP, loc.VDOP)
	}
	if loc.NumSV != 9 {
		t.Errorf("numsv = %d, want 9", loc.NumSV)
	}
	if loc.Correction != 18 {
		t.Errorf("correction = %d, want 18", loc.Correction)
	}
	if loc.Time.Year != 38 || loc.Time.Month != 7 || loc.Time.Day != 1 {
		t.Errorf("date = %d-%02d-%02d", loc.Time.Year, loc.Time.Month, loc.Time.Day)
	}
	if loc.Time.Millis != 250 {
		t.Errorf("millis = %d, want 250", loc.Time.Millis)
	}

	// The constellation follows once the solution is out.
	s.Receive(navSVInfo(itow, []svinfoRecord{
		{svid: 5, flags: 0x01, quality: 4, cno: 40, elev: 50, azim: 100},
		{svid: 120, flags: 0x00, quality: 1, cno: 0, elev: -5, azim: 0},
	}))

	if len(c.satellites) != 1 {
		t.Fatalf("got %d satellite callbacks, want 1", len(c.satellites))
	}
	sats := c.satellites[0]
	if sats.Count != 2 {
		t.Fatalf("satellite count = %d, want 2", sats.Count)
	}
	if sats.Info[0].PRN != 5 ||
		sats.Info[0].State != SatelliteStateTracking|SatelliteStateNavigating ||
		sats.Info[0].SNR != 40 || sats.Info[0].Elevation != 50 || sats.Info[0].Azimuth != 100 {
		t.Errorf("satellite 0 = %+v", sats.Info[0])
	}
	// SBAS 120 maps to canonical PRN 33; negative elevation reads as 0.
	if sats.Info[1].PRN != 33 || sats.Info[1].State != SatelliteStateSearching ||
		sats.Info[1].Elevation != 0 {
		t.Errorf("satellite 1 = %+v", sats.Info[1])
	}
}

func TestUbloxEpochMismatchDiscards(t *testing.T) {
	var c fixCollector
	s, _, _ := newUbloxSession(t, &c)

	s.Receive(navPVT(111111000))
	s.Receive(navDOP(222222000)) // different epoch: accumulator cleared
	s.Receive(navTimeGPS(222222000))
	if len(c.locations) != 0 {
		t.Fatalf("location emitted across mismatching epochs")
	}

	s.Receive(navPVT(222222000))
	if len(c.locations) != 1 {
		t.Fatalf("location not emitted once the epoch completed")
	}
}

func TestUbloxBadFletcherSuppressed(t *testing.T) {
	var c fixCollector
	s, _, _ := newUbloxSession(t, &c)

	const itow = 123456000
	for _, frame := range [][]byte{navPVT(itow), navDOP(itow), navTimeGPS(itow)} {
		frame[len(frame)-1] ^= 0xff
		s.Receive(frame)
	}
	if len(c.locations) != 0 {
		t.Fatalf("location emitted from checksum-failed frames")
	}

	s.Receive(navPVT(itow))
	s.Receive(navDOP(itow))
	s.Receive(navTimeGPS(itow))
	if len(c.locations) != 1 {
		t.Fatalf("no recovery after Fletcher errors")
	}
}

func TestSVInfoChunkedLargePayload(t *testing.T) {
	var c fixCollector
	s, _, _ := newUbloxSession(t, &c)

	const itow = 123456000
	s.Receive(navPVT(itow))
	s.Receive(navDOP(itow))
	s.Receive(navTimeGPS(itow))

	// 16 records make the payload (200 bytes) far larger than the
	// receive buffer; chunked streaming must still see every record.
	records := make([]svinfoRecord, 16)
	for i := range records {
		records[i] = svinfoRecord{svid: byte(i + 1), quality: 4, cno: byte(20 + i), elev: 10, azim: int16(i * 20)}
	}
	s.Receive(navSVInfo(itow, records))

	if len(c.satellites) != 1 {
		t.Fatalf("got %d satellite callbacks, want 1", len(c.satellites))
	}
	sats := c.satellites[0]
	if sats.Count != 16 {
		t.Fatalf("satellite count = %d, want 16", sats.Count)
	}
	for i := 0; i < 16; i++ {
		if sats.Info[i].PRN != uint8(i+1) || sats.Info[i].SNR != uint8(20+i) {
			t.Fatalf("satellite %d = %+v", i, sats.Info[i])
		}
	}
}

func TestCanonicalPRNMapping(t *testing.T) {
	cases := []struct{ svid, prn uint32 }{
		{1, 1},
		{32, 32},
		{33, 33 + 201 + 5 - 33}, // BEIDOU
		{64, 64 + 201 + 5 - 33},
		{65, 65}, // GLONASS
		{96, 96},
		{120, 33}, // SBAS
		{151, 64},
		{152, 152}, // SBAS
		{158, 158},
		{159, 201}, // BEIDOU
		{163, 205},
		{193, 193}, // QZSS
		{200, 200},
		{255, 255}, // GLONASS, slot unknown
		{97, 0},
		{119, 0},
		{164, 0},
		{201, 0},
	}
	for _, tc := range cases {
		if got := ubxCanonicalPRN(tc.svid); got != tc.prn {
			t.Errorf("svid %d: prn = %d, want %d", tc.svid, got, tc.prn)
		}
	}
}
