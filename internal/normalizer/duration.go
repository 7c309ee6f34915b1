package normalizer

import (
	"regexp"
	"strconv"
	"strings"
)

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// FormatDuration renders an ISO-8601 duration ("PT2H15M") as "2h 15m".
// Missing units are omitted and days fold into hours. Input that is not a
// duration is returned unchanged.
func FormatDuration(iso string) string {
	s := strings.ToUpper(strings.TrimSpace(iso))
	m := isoDuration.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return iso
	}

	days, _ := strconv.Atoi(m[1])
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])

	return FormatMinutes((days*24+hours)*60 + minutes)
}

// FormatMinutes renders a minute count as "2h 15m", "45m" or "3h".
func FormatMinutes(total int) string {
	if total <= 0 {
		return "0m"
	}
	h, m := total/60, total%60
	switch {
	case h == 0:
		return strconv.Itoa(m) + "m"
	case m == 0:
		return strconv.Itoa(h) + "h"
	default:
		return strconv.Itoa(h) + "h " + strconv.Itoa(m) + "m"
	}
}
