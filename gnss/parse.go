/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	parse.go: typed NMEA field parsers. All of them work on a single
	tokenized field (no commas, no checksum) and reject the field outright
	on any malformed byte; the sentence machine turns a rejection into the
	sink state.
*/

package gnss

var nmeaScale = [10]uint32{
	1,
	10,
	100,
	1000,
	10000,
	100000,
	1000000,
	10000000,
	100000000,
	1000000000,
}

// isqrt is the classic bit-by-bit integer square root.
func isqrt(n uint32) uint32 {
	c := uint32(0x8000)
	g := uint32(0x8000)

	for {
		if g*g > n {
			g ^= c
		}

		c >>= 1

		if c == 0 {
			return g
		}

		g |= c
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// nmeaParseTime parses HHMMSS with an optional fractional part of up to
// three digits, right-padded to milliseconds. A 60 in the seconds field
// is legal (leap second). Only the time-of-day fields of t are touched.
func nmeaParseTime(data []byte, t *UtcTime) bool {
	if len(data) < 6 || !isDigit(data[0]) || !isDigit(data[1]) {
		return false
	}
	hour := uint32(data[0]-'0')*10 + uint32(data[1]-'0')
	data = data[2:]

	if hour >= 24 || !isDigit(data[0]) || !isDigit(data[1]) {
		return false
	}
	minute := uint32(data[0]-'0')*10 + uint32(data[1]-'0')
	data = data[2:]

	if minute >= 60 || !isDigit(data[0]) || !isDigit(data[1]) {
		return false
	}
	second := uint32(data[0]-'0')*10 + uint32(data[1]-'0')
	data = data[2:]

	if second > 60 {
		return false
	}

	millis := uint32(0)
	if len(data) > 0 && data[0] == '.' {
		data = data[1:]
		digits := uint32(0)
		for len(data) > 0 && isDigit(data[0]) {
			if digits < 3 {
				millis = millis*10 + uint32(data[0]-'0')
				digits++
			}
			data = data[1:]
		}
		if len(data) == 0 && digits < 3 {
			millis *= nmeaScale[3-digits]
		}
	}

	if len(data) != 0 {
		return false
	}

	t.Hour = uint8(hour)
	t.Minute = uint8(minute)
	t.Second = uint8(second)
	t.Millis = uint16(millis)
	return true
}

// nmeaParseUnsigned parses a plain decimal integer. An empty field parses
// as zero; callers that care check for emptiness themselves.
func nmeaParseUnsigned(data []byte) (uint32, bool) {
	integer := uint32(0)

	for len(data) > 0 && isDigit(data[0]) {
		integer = integer*10 + uint32(data[0]-'0')
		data = data[1:]
	}

	if len(data) != 0 {
		return 0, false
	}
	return integer, true
}

// nmeaParseFixed parses a decimal number into integer*10^scale +
// fraction. Fractional digits beyond scale are discarded, short fractions
// are left-shifted.
func nmeaParseFixed(data []byte, scale uint32) (uint32, bool) {
	integer := uint32(0)

	for len(data) > 0 && isDigit(data[0]) {
		integer = integer*10 + uint32(data[0]-'0')
		data = data[1:]
	}

	fraction := uint32(0)
	if len(data) > 0 && data[0] == '.' {
		data = data[1:]
		digits := uint32(0)
		for len(data) > 0 && isDigit(data[0]) {
			if digits < scale {
				fraction = fraction*10 + uint32(data[0]-'0')
				digits++
			}
			data = data[1:]
		}
		if len(data) == 0 && digits < scale {
			fraction *= nmeaScale[scale-digits]
		}
	}

	if len(data) != 0 {
		return 0, false
	}
	return integer*nmeaScale[scale] + fraction, true
}

// nmeaParseLatitude parses DDMM.mmmmmmm into 1e-7 degrees (unsigned; the
// hemisphere field supplies the sign). Minutes are converted with
// round-to-nearest.
func nmeaParseLatitude(data []byte) (uint32, bool) {
	if len(data) < 3 || !isDigit(data[0]) || !isDigit(data[1]) {
		return 0, false
	}
	degrees := uint32(data[0]-'0')*10 + uint32(data[1]-'0')
	if degrees >= 90 {
		return 0, false
	}

	minutes, ok := nmeaParseFixed(data[2:], 7)
	if !ok || minutes >= 600000000 {
		return 0, false
	}
	return degrees*10000000 + (minutes+30)/60, true
}

// nmeaParseLongitude parses DDDMM.mmmmmmm into 1e-7 degrees.
func nmeaParseLongitude(data []byte) (uint32, bool) {
	if len(data) < 4 || !isDigit(data[0]) || !isDigit(data[1]) || !isDigit(data[2]) {
		return 0, false
	}
	degrees := uint32(data[0]-'0')*100 + uint32(data[1]-'0')*10 + uint32(data[2]-'0')
	if degrees >= 180 {
		return 0, false
	}

	minutes, ok := nmeaParseFixed(data[3:], 7)
	if !ok || minutes >= 600000000 {
		return 0, false
	}
	return degrees*10000000 + (minutes+30)/60, true
}
