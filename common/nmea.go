/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	nmea.go: NMEA 0183 sentence checksum helpers shared by the transports
	and the line tap.
*/

package common

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidateNMEAChecksum determines if a string is a properly formatted
// NMEA sentence with a valid checksum.
//
// If the input string is valid, output is the input stripped of the "$"
// token and checksum, along with a boolean 'true'. If the input string is
// the incorrect format, or the checksum is missing/invalid, an error
// string and boolean 'false' are returned.
//
// The checksum is the XOR of all bytes between "$" and "*".
func ValidateNMEAChecksum(s string) (string, bool) {
	if !strings.HasPrefix(s, "$") || !strings.Contains(s, "*") {
		return "Invalid NMEA message", false
	}

	split := strings.Split(strings.TrimPrefix(s, "$"), "*")
	payload := split[0]
	ckField := split[1]

	if len(ckField) < 2 {
		return "Missing checksum. Fewer than two bytes after asterisk", false
	}

	ck, err := strconv.ParseUint(ckField[:2], 16, 8)
	if err != nil {
		return "Invalid checksum", false
	}

	calc := byte(0)
	for i := range payload {
		calc ^= payload[i]
	}

	if calc != byte(ck) {
		return fmt.Sprintf("Checksum failed. Calculated %#X; expected %#X", calc, ck), false
	}

	return payload, true
}

// MakeNMEACmd frames a command payload as a complete sentence with
// checksum and CR/LF, ready for transmission.
func MakeNMEACmd(cmd string) []byte {
	ck := byte(0)
	for i := range cmd {
		ck ^= cmd[i]
	}
	return []byte(fmt.Sprintf("$%s*%02x\x0d\x0a", cmd, ck))
}

// AppendNmeaChecksum appends "*XX" to an NMEA sentence, with or without
// its leading "$".
func AppendNmeaChecksum(nmea string) string {
	start := 0
	if nmea[0] == '$' {
		start = 1
	}
	ck := byte(0)
	for i := start; i < len(nmea); i++ {
		ck ^= nmea[i]
	}
	return fmt.Sprintf("%s*%02X", nmea, ck)
}
