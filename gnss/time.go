/*
	Copyright (c) 2015-2016 Christopher Young
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file, herein included
	as part of this header.

	time.go: GPS week/time-of-week against UTC arithmetic. Valid for the
	1980..2099 range covered by the two-digit NMEA year.
*/

package gnss

var utcDaysSinceMonth = [2][12]uint16{
	{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334},
	{0, 31, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335},
}

func utcDaysSince1980(t *UtcTime) int {
	leap := 0
	if t.Year&3 == 0 {
		leap = 1
	}
	return int(t.Year)*365 + (1 + (int(t.Year)-1)/4) +
		int(utcDaysSinceMonth[leap][t.Month-1]) + int(t.Day) - 1
}

// utcDiffTime returns t0+offset0 minus t1+offset1 in seconds.
func utcDiffTime(t0 *UtcTime, offset0 uint32, t1 *UtcTime, offset1 uint32) int {
	return ((utcDaysSince1980(t0)-utcDaysSince1980(t1))*24+
		int(t0.Hour)-int(t1.Hour))*3600 +
		(int(t0.Minute)-int(t1.Minute))*60 +
		int(t0.Second) + int(offset0) - int(t1.Second) - int(offset1)
}

// utcOffsetTime computes the GPS-UTC offset (the leap second count) from
// a UTC timestamp and the GPS week/tow, which run ahead of UTC by exactly
// that offset. The GPS epoch is 1980-01-06; the caller guarantees a
// non-1980 year, where the day count is exact.
func utcOffsetTime(t *UtcTime, week uint16, tow uint32) int {
	utc := (((utcDaysSince1980(t)-(6-1))*24+int(t.Hour))*60+int(t.Minute))*60 +
		int(t.Second)

	return int(uint32(week)*604800+(tow+500)/1000) - utc
}
