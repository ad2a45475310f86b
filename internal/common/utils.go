package common

import (
	"fmt"
	"strings"
	"time"
)

var zoneNames = map[int]string{
	-5:  "EST",
	-6:  "CST",
	-7:  "MST",
	-8:  "PST",
	-9:  "AKST",
	-10: "HST",
}

// ZoneName returns the US standard-time abbreviation for an offset in hours,
// or a UTC±N label when there is none.
func ZoneName(offsetHours int) string {
	if name, ok := zoneNames[offsetHours]; ok {
		return name
	}
	if offsetHours == 0 {
		return "UTC"
	}
	return fmt.Sprintf("UTC%+d", offsetHours)
}

// FixedZone builds a fixed-offset location named after ZoneName.
func FixedZone(offsetHours int) *time.Location {
	return time.FixedZone(ZoneName(offsetHours), offsetHours*3600)
}

// FormatClock renders t as "3:51pm EST" in the given offset.
func FormatClock(t time.Time, offsetHours int) string {
	local := t.In(FixedZone(offsetHours))
	return strings.ToLower(local.Format("3:04PM")) + " " + ZoneName(offsetHours)
}

// CivilDate formats t as YYYY-MM-DD in the given offset.
func CivilDate(t time.Time, offsetHours int) string {
	return t.In(FixedZone(offsetHours)).Format(time.DateOnly)
}
