/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	tables.go: receiver command tables. Every frame is transmitted
	byte-for-byte as written here; the UBX frames embed precomputed
	Fletcher checksums and the NMEA command sentences their XOR checksum.
*/

package gnss

// Mediatek (PMTK) command sentences.

var mtkInitTable1Hz = [][]byte{
	[]byte("$PMTK314,0,1,0,1,1,1,1,1,0,0,0,0,0,0,0,0,0,0,0*28\r\n"),
	[]byte("$PMTK220,1000*1F\r\n"),         // POS FIX
	[]byte("$PMTK300,1000,0,0,0,0*1C\r\n"), // FIX CTL
	[]byte("$PMTK286,1*23\r\n"),            // AIC
	[]byte("$PMTK397,0*23\r\n"),            // NAV THRESHOLD
}

var mtkInitTable5Hz = [][]byte{
	[]byte("$PMTK314,0,1,0,1,1,5,1,1,0,0,0,0,0,0,0,0,0,0,0*2C\r\n"),
	[]byte("$PMTK220,200*2C\r\n"),         // POS FIX
	[]byte("$PMTK300,200,0,0,0,0*2F\r\n"), // FIX CTL
	[]byte("$PMTK286,1*23\r\n"),           // AIC
	[]byte("$PMTK397,0*23\r\n"),           // NAV THRESHOLD
}

var mtkConstellationGPSGlonassTable = [][]byte{
	[]byte("$PMTK353,1,1*37\r\n"), // GLONASS
}

var mtkConstellationGPSTable = [][]byte{
	[]byte("$PMTK353,1,0*36\r\n"), // GLONASS
}

var mtkSBASEnableTable = [][]byte{
	[]byte("$PMTK301,2*2E\r\n"), // DGPS MODE
	[]byte("$PMTK313,1*2E\r\n"), // SBAS ENABLED
}

var mtkSBASDisableTable = [][]byte{
	[]byte("$PMTK301,0*2C\r\n"), // DGPS MODE
	[]byte("$PMTK313,0*2F\r\n"), // SBAS ENABLED
}

var mtkQZSSEnableTable = [][]byte{
	[]byte("$PMTK351,0*29\r\n"), // QZSS NMEA
	[]byte("$PMTK352,0*2A\r\n"), // QZSS STOP
}

var mtkQZSSDisableTable = [][]byte{
	[]byte("$PMTK351,0*29\r\n"), // QZSS NMEA
	[]byte("$PMTK352,1*2B\r\n"), // QZSS STOP
}

func mtkBaudSentence(speed uint) []byte {
	switch {
	case speed >= 115200:
		return []byte("$PMTK251,115200*1F\r\n")
	case speed >= 57600:
		return []byte("$PMTK251,57600*2C\r\n")
	case speed >= 38400:
		return []byte("$PMTK251,38400*27\r\n")
	case speed >= 19200:
		return []byte("$PMTK251,19200*22\r\n")
	default:
		return []byte("$PMTK251,9600*17\r\n")
	}
}

// u-blox UBX frames. Layout: sync (B5 62), class, id, length LE, payload,
// CK_A, CK_B.

var ubxCfgMsgNavPVT = []byte{
	0xb5, 0x62,
	0x06, 0x01,
	0x08, 0x00,
	0x01, 0x07, // UBX-NAV-PVT
	0x01, 0x01, 0x00, 0x00, 0x00, 0x00, // rates DDC, UART1, UART2, USB, SPI
	0x19, 0xe7,
}

var ubxCfgMsgNavTimeGPS = []byte{
	0xb5, 0x62,
	0x06, 0x01,
	0x08, 0x00,
	0x01, 0x20, // UBX-NAV-TIMEGPS
	0x01, 0x01, 0x00, 0x00, 0x00, 0x00,
	0x32, 0x96,
}

var ubxCfgMsgNavDOP = []byte{
	0xb5, 0x62,
	0x06, 0x01,
	0x08, 0x00,
	0x01, 0x04, // UBX-NAV-DOP
	0x01, 0x01, 0x00, 0x00, 0x00, 0x00,
	0x16, 0xd2,
}

// NAV-SVINFO is rate-divided so the constellation arrives once per
// second at every fix rate.
var ubxCfgMsgNavSVInfo1Hz = []byte{
	0xb5, 0x62,
	0x06, 0x01,
	0x08, 0x00,
	0x01, 0x30,
	0x01, 0x01, 0x00, 0x00, 0x00, 0x00,
	0x42, 0x06,
}

var ubxCfgMsgNavSVInfo5Hz = []byte{
	0xb5, 0x62,
	0x06, 0x01,
	0x08, 0x00,
	0x01, 0x30,
	0x05, 0x05, 0x00, 0x00, 0x00, 0x00,
	0x4a, 0x32,
}

var ubxCfgMsgNavSVInfo10Hz = []byte{
	0xb5, 0x62,
	0x06, 0x01,
	0x08, 0x00,
	0x01, 0x30,
	0x0a, 0x0a, 0x00, 0x00, 0x00, 0x00,
	0x54, 0x69,
}

var ubxCfgMsgNmeaGGA = []byte{
	0xb5, 0x62,
	0x06, 0x01,
	0x08, 0x00,
	0xf0, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0x23,
}

var ubxCfgMsgNmeaGLL = []byte{
	0xb5, 0x62,
	0x06, 0x01,
	0x08, 0x00,
	0xf0, 0x01,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x2a,
}

var ubxCfgMsgNmeaGSA = []byte{
	0xb5, 0x62,
	0x06, 0x01,
	0x08, 0x00,
	0xf0, 0x02,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x31,
}

var ubxCfgMsgNmeaGSV = []byte{
	0xb5, 0x62,
	0x06, 0x01,
	0x08, 0x00,
	0xf0, 0x03,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x38,
}

var ubxCfgMsgNmeaRMC = []byte{
	0xb5, 0x62,
	0x06, 0x01,
	0x08, 0x00,
	0xf0, 0x04,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x03, 0x3f,
}

var ubxCfgMsgNmeaVTG = []byte{
	0xb5, 0x62,
	0x06, 0x01,
	0x08, 0x00,
	0xf0, 0x05,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x04, 0x46,
}

var ubxCfgRate1Hz = []byte{
	0xb5, 0x62,
	0x06, 0x08,
	0x06, 0x00,
	0xe8, 0x03, // measurement rate 1000 ms
	0x01, 0x00, // navigation rate
	0x01, 0x00, // time reference: GPS
	0x01, 0x39,
}

var ubxCfgRate5Hz = []byte{
	0xb5, 0x62,
	0x06, 0x08,
	0x06, 0x00,
	0xc8, 0x00, // measurement rate 200 ms
	0x01, 0x00,
	0x01, 0x00,
	0xde, 0x6a,
}

var ubxCfgRate10Hz = []byte{
	0xb5, 0x62,
	0x06, 0x08,
	0x06, 0x00,
	0x64, 0x00, // measurement rate 100 ms
	0x01, 0x00,
	0x01, 0x00,
	0x7a, 0x12,
}

var ubxCfgTP5 = []byte{
	0xb5, 0x62,
	0x06, 0x31,
	0x20, 0x00,
	0x00,       // timepulse
	0x00, 0x00, 0x00,
	0x32, 0x00, // antenna cable delay
	0x00, 0x00, // RF group delay
	0x40, 0x42, 0x0f, 0x00, // period
	0x40, 0x42, 0x0f, 0x00, // period locked
	0x40, 0x42, 0x0f, 0x00, // pulse length
	0xa0, 0xbb, 0x0d, 0x00, // pulse length locked
	0x00, 0x00, 0x00, 0x00, // user delay
	0x37, 0x00, 0x00, 0x00, // flags
	0xdb, 0x06,
}

var ubxCfgPM2 = []byte{
	0xb5, 0x62,
	0x06, 0x3b,
	0x2c, 0x00,
	0x01,       // version
	0x00,       // reserved1
	0x00,       // reserved2
	0x00,       // reserved3
	0x00, 0x11, 0x02, 0x00, // flags
	0xe8, 0x03, 0x00, 0x00, // update period
	0x10, 0x27, 0x00, 0x00, // search period
	0x00, 0x00, 0x00, 0x00, // grid offset
	0x00, 0x00, // on time
	0x00, 0x00, // min acq time
	0x00, 0x00,
	0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
	0x00,
	0x00,
	0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
	0xa3, 0xae,
}

var ubxCfgGnssGlonassEnable = []byte{
	0xb5, 0x62,
	0x06, 0x3e,
	0x0c, 0x00,
	0x00,       // version
	0x00,       // num tracking channels hw
	0xff,       // num tracking channels sw
	0x01,       // num config blocks
	0x06, 0x08, 0x0e, 0x00, 0x01, 0x00, 0x01, 0x00, // GLONASS
	0x6e, 0x6b,
}

var ubxCfgGnssGlonassDisable = []byte{
	0xb5, 0x62,
	0x06, 0x3e,
	0x0c, 0x00,
	0x00,
	0x00,
	0xff,
	0x01,
	0x06, 0x08, 0x0e, 0x00, 0x00, 0x00, 0x00, 0x00, // GLONASS
	0x6c, 0x65,
}

var ubxCfgGnssSBASEnable = []byte{
	0xb5, 0x62,
	0x06, 0x3e,
	0x0c, 0x00,
	0x00,
	0x00,
	0xff,
	0x01,
	0x01, 0x01, 0x03, 0x00, 0x01, 0x00, 0x01, 0x00, // SBAS
	0x57, 0xd0,
}

var ubxCfgGnssSBASDisable = []byte{
	0xb5, 0x62,
	0x06, 0x3e,
	0x0c, 0x00,
	0x00,
	0x00,
	0xff,
	0x01,
	0x01, 0x01, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, // SBAS
	0x55, 0xca,
}

var ubxCfgGnssQZSSEnable = []byte{
	0xb5, 0x62,
	0x06, 0x3e,
	0x0c, 0x00,
	0x00,
	0x00,
	0xff,
	0x01,
	0x05, 0x00, 0x03, 0x00, 0x01, 0x00, 0x01, 0x00, // QZSS
	0x5a, 0xe9,
}

var ubxCfgGnssQZSSDisable = []byte{
	0xb5, 0x62,
	0x06, 0x3e,
	0x0c, 0x00,
	0x00,
	0x00,
	0xff,
	0x01,
	0x05, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, // QZSS
	0x58, 0xe3,
}

var ubxCfgSBASDisable = []byte{
	0xb5, 0x62,
	0x06, 0x16,
	0x08, 0x00,
	0x00,       // mode
	0x00,       // usage
	0x00,       // max SBAS
	0x00,       // scanmode2
	0x00, 0x00, 0x00, 0x00, // scanmode1
	0x24, 0x8a,
}

var ubxCfgSBASAuto = []byte{
	0xb5, 0x62,
	0x06, 0x16,
	0x08, 0x00,
	0x01,       // mode
	0x03,       // usage
	0x03,       // max SBAS
	0x00,       // scanmode2
	0x89, 0xa3, 0x07, 0x00, // scanmode1 (120, 123, 127-129, 133, 135-138)
	0x5e, 0xd4,
}

// The continuous-mode frame carries a wake-up preamble: a sleeping
// receiver swallows the first bytes on the line while its UART spins up.
var ubxCfgRxmContinuous = []byte{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xb5, 0x62,
	0x06, 0x11,
	0x02, 0x00,
	0x00, // reserved
	0x00, // mode: continuous
	0x19, 0x81,
}

var ubxCfgRxmPowersave = []byte{
	0xb5, 0x62,
	0x06, 0x11,
	0x02, 0x00,
	0x00, // reserved
	0x01, // mode: power save
	0x1a, 0x82,
}

var ubxCfgSave = []byte{
	0xb5, 0x62,
	0x06, 0x09,
	0x0d, 0x00,
	0x00, 0x00, 0x00, 0x00, // clear mask
	0xff, 0xff, 0xff, 0xff, // save mask
	0x00, 0x00, 0x00, 0x00, // load mask
	0x01,                   // device mask
	0x19, 0x9c,
}

var ubxRxmPmreq = []byte{
	0xb5, 0x62,
	0x02, 0x41,
	0x08, 0x00,
	0x00, 0x00, 0x00, 0x00, // duration: infinite
	0x02, 0x00, 0x00, 0x00, // flags: backup
	0x4d, 0x3b,
}

var ubxCfgExternalEnable = []byte{
	0xb5, 0x62,
	0x06, 0x13,
	0x04, 0x00,
	0x00, 0x00, // flags
	0xf0, 0xb9, // pins
	0xc6, 0x66,
}

var ubxCfgExternalDisable = []byte{
	0xb5, 0x62,
	0x06, 0x13,
	0x04, 0x00,
	0x01, 0x00, // flags
	0xf0, 0xb9, // pins
	0xc7, 0x6a,
}

var ubxInitTable1Hz = [][]byte{
	ubxCfgRxmContinuous,
	ubxCfgPM2,
	ubxCfgMsgNavPVT,
	ubxCfgMsgNavTimeGPS,
	ubxCfgMsgNavDOP,
	ubxCfgMsgNavSVInfo1Hz,
	ubxCfgMsgNmeaGGA,
	ubxCfgMsgNmeaGLL,
	ubxCfgMsgNmeaGSA,
	ubxCfgMsgNmeaGSV,
	ubxCfgMsgNmeaRMC,
	ubxCfgMsgNmeaVTG,
	ubxCfgRate1Hz,
	ubxCfgTP5,
	ubxCfgGnssGlonassEnable,
	ubxCfgGnssSBASEnable,
	ubxCfgGnssQZSSDisable,
	ubxCfgSBASAuto,
	ubxCfgSave,
}

var ubxInitTable5Hz = [][]byte{
	ubxCfgRxmContinuous,
	ubxCfgPM2,
	ubxCfgMsgNavPVT,
	ubxCfgMsgNavTimeGPS,
	ubxCfgMsgNavDOP,
	ubxCfgMsgNavSVInfo5Hz,
	ubxCfgMsgNmeaGGA,
	ubxCfgMsgNmeaGLL,
	ubxCfgMsgNmeaGSA,
	ubxCfgMsgNmeaGSV,
	ubxCfgMsgNmeaRMC,
	ubxCfgMsgNmeaVTG,
	ubxCfgRate5Hz,
	ubxCfgTP5,
	ubxCfgGnssGlonassEnable,
	ubxCfgGnssSBASEnable,
	ubxCfgGnssQZSSDisable,
	ubxCfgSBASAuto,
	ubxCfgSave,
}

var ubxInitTable10Hz = [][]byte{
	ubxCfgRxmContinuous,
	ubxCfgPM2,
	ubxCfgMsgNavPVT,
	ubxCfgMsgNavTimeGPS,
	ubxCfgMsgNavDOP,
	ubxCfgMsgNavSVInfo10Hz,
	ubxCfgMsgNmeaGGA,
	ubxCfgMsgNmeaGLL,
	ubxCfgMsgNmeaGSA,
	ubxCfgMsgNmeaGSV,
	ubxCfgMsgNmeaRMC,
	ubxCfgMsgNmeaVTG,
	ubxCfgRate10Hz,
	ubxCfgTP5,
	ubxCfgGnssGlonassEnable,
	ubxCfgGnssSBASEnable,
	ubxCfgGnssQZSSDisable,
	ubxCfgSBASAuto,
	ubxCfgSave,
}

var ubxExternalEnableTable = [][]byte{
	ubxCfgRxmContinuous,
	ubxCfgPM2,
	ubxCfgExternalEnable,
	ubxCfgSave,
}

var ubxExternalDisableTable = [][]byte{
	ubxCfgRxmContinuous,
	ubxCfgPM2,
	ubxCfgExternalDisable,
	ubxCfgSave,
}

var ubxConstellationGPSTable = [][]byte{
	ubxCfgRxmContinuous,
	ubxCfgPM2,
	ubxCfgGnssGlonassDisable,
	ubxCfgSave,
}

var ubxConstellationGPSGlonassTable = [][]byte{
	ubxCfgRxmContinuous,
	ubxCfgPM2,
	ubxCfgGnssGlonassEnable,
	ubxCfgSave,
}

var ubxSBASEnableTable = [][]byte{
	ubxCfgRxmContinuous,
	ubxCfgPM2,
	ubxCfgGnssSBASEnable,
	ubxCfgSBASAuto,
	ubxCfgSave,
}

var ubxSBASDisableTable = [][]byte{
	ubxCfgRxmContinuous,
	ubxCfgPM2,
	ubxCfgGnssSBASDisable,
	ubxCfgSBASDisable,
	ubxCfgSave,
}

var ubxQZSSEnableTable = [][]byte{
	ubxCfgRxmContinuous,
	ubxCfgPM2,
	ubxCfgGnssQZSSEnable,
	ubxCfgSave,
}

var ubxQZSSDisableTable = [][]byte{
	ubxCfgRxmContinuous,
	ubxCfgPM2,
	ubxCfgGnssQZSSDisable,
	ubxCfgSave,
}

func ubxBaudSentence(speed uint) []byte {
	switch {
	case speed >= 115200:
		return []byte("$PUBX,41,1,0007,0003,115200,0*18\r\n")
	case speed >= 57600:
		return []byte("$PUBX,41,1,0007,0003,57600,0*2B\r\n")
	case speed >= 38400:
		return []byte("$PUBX,41,1,0007,0003,38400,0*20\r\n")
	case speed >= 19200:
		return []byte("$PUBX,41,1,0007,0003,19200,0*25\r\n")
	default:
		return []byte("$PUBX,41,1,0007,0003,9600,0*10\r\n")
	}
}
