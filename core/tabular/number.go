package tabular

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumber parses a spreadsheet number written either with a decimal point
// or a decimal comma, with optional thousands separators. A single comma is a
// decimal comma, so "1,234" is 1.234; see ParseNumberThousands.
func ParseNumber(s string) (float64, error) { return parseNumber(s, false) }

// ParseNumberThousands is ParseNumber for comma separated sources, where a
// single comma followed by exactly three digits groups thousands: "1,234" is
// 1234 while "1,5" is still 1.5.
func ParseNumberThousands(s string) (float64, error) { return parseNumber(s, true) }

func parseNumber(s string, thousands bool) (float64, error) {
	v := strings.TrimSpace(s)
	v = strings.ReplaceAll(v, " ", "")
	v = strings.ReplaceAll(v, "\u00a0", "")
	if v == "" {
		return 0, fmt.Errorf("empty number")
	}
	dot := strings.LastIndex(v, ".")
	comma := strings.LastIndex(v, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			v = strings.ReplaceAll(v, ".", "")
			v = strings.Replace(v, ",", ".", 1)
		} else {
			v = strings.ReplaceAll(v, ",", "")
		}
	case comma >= 0:
		if strings.Count(v, ",") > 1 || (thousands && groupsThousands(v[comma+1:])) {
			v = strings.ReplaceAll(v, ",", "")
		} else {
			v = strings.Replace(v, ",", ".", 1)
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

func groupsThousands(tail string) bool {
	if len(tail) != 3 {
		return false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatNumber renders f with the shortest exact representation.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
