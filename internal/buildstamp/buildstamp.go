// Package buildstamp formats compiler-style build date/time strings
// ("Jul  4 2025" + "12:34:56") as "07/04/2025 12:34:56" for display on the
// boot screen.
package buildstamp

import (
	"fmt"
	"strconv"
	"strings"
)

var months = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

// Format converts a "Mmm d yyyy" date and a clock string into
// "MM/DD/YYYY hh:mm:ss". Unparseable input is returned joined as-is.
func Format(date, clock string) string {
	fields := strings.Fields(date)
	if len(fields) != 3 {
		return strings.TrimSpace(date + " " + clock)
	}
	month, ok := months[fields[0]]
	day, errDay := strconv.Atoi(fields[1])
	year, errYear := strconv.Atoi(fields[2])
	if !ok || errDay != nil || errYear != nil {
		return strings.TrimSpace(date + " " + clock)
	}
	return fmt.Sprintf("%02d/%02d/%d %s", month, day, year, clock)
}
