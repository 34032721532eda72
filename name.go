package rundown

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// RundownName is the identity derived from an export file name.
type RundownName struct {
	// Year is the four-digit year of the broadcast date.
	Year string

	// Date is the broadcast date embedded in the file name.
	Date time.Time

	// Block is the hour block, e.g. "08-09".
	Block string

	Station Station

	// Canonical is the normalized file name without extension, e.g.
	// RUNDOWN_2023-01-15_08-09_N_Plus.
	Canonical string
}

var datePattern = regexp.MustCompile(`\d{8}`)

// Offsets of the fixed RD_HH-MM_ file name prefix.
const (
	blockStart     = 3
	blockEnd       = 8
	remainderStart = 9
)

// ResolveName parses an export file name such as RD_08-09_Plus20230115.xml.
// Directory and extension are ignored.
//
// Returns ESTATION if the station token is not in the directory and
// EMALFORMED if the hour block or date cannot be parsed.
func ResolveName(name string) (*RundownName, error) {
	stem := norm.NFC.String(filepath.Base(name))
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))

	runes := []rune(stem)
	if len(runes) <= remainderStart {
		return nil, Errorf(EMALFORMED, "file name %q too short", name)
	}

	block, err := parseBlock(string(runes[blockStart:blockEnd]))
	if err != nil {
		return nil, Errorf(EMALFORMED, "file name %q: %s", name, err)
	}
	remainder := string(runes[remainderStart:])

	station, err := LookupStation(stationToken(remainder))
	if err != nil {
		return nil, err
	}

	matches := datePattern.FindAllString(remainder, -1)
	if len(matches) == 0 {
		return nil, Errorf(EMALFORMED, "file name %q: no date", name)
	}
	raw := matches[len(matches)-1]
	date, err := time.Parse("20060102", raw)
	if err != nil {
		return nil, Errorf(EMALFORMED, "file name %q: invalid date %q", name, raw)
	}

	year, month, day := raw[:4], raw[4:6], raw[6:8]
	return &RundownName{
		Year:    year,
		Date:    date,
		Block:   block,
		Station: station,
		Canonical: fmt.Sprintf("RUNDOWN_%s-%s-%s_%s_%s_%s",
			year, month, day, block, station.Category.Code(), CanonicalStationName(station.Name)),
	}, nil
}

// CanonicalStationName replaces underscores with hyphens and strips the
// organizational prefix, e.g. ČRo_Hradec_Králové becomes Hradec-Králové.
func CanonicalStationName(name string) string {
	return strings.Replace(strings.ReplaceAll(name, "_", "-"), "ČRo-", "", 1)
}

// stationToken extracts the station display name from the part of the file
// name following the hour block.
func stationToken(remainder string) string {
	var token string
	if i := strings.Index(remainder, "-"); i >= 0 {
		token = remainder[:i]
	} else {
		token = strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return -1
			}
			return r
		}, remainder)
	}
	return strings.Trim(token, "_")
}

// parseBlock validates an hour block of the form HH-MM.
func parseBlock(s string) (string, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok || len(from) != 2 || len(to) != 2 {
		return "", fmt.Errorf("invalid hour block %q", s)
	}
	for _, part := range []string{from, to} {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 24 {
			return "", fmt.Errorf("invalid hour block %q", s)
		}
	}
	return s, nil
}
