package repository

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

const (
	filePrefix = "DES_"
	fileExt    = ".rep"

	rawTimestampLayout = "20060102150405"
	// TimestampLayout renders acquisition times, e.g. "25 Dec 2024, 10:40:10".
	TimestampLayout = "02 Jan 2006, 15:04:05"
)

var errTimestampShape = errors.New("file name does not end in a 14-digit timestamp")

// Naming is the single definition of the data file name convention
// DES_<station id><timestamp>.rep. Directory listing, the latest-file lookup and
// timestamp extraction all derive their patterns from it.
type Naming struct {
	IDWidth int
	any     *regexp.Regexp
}

func NewNaming(idWidth int) Naming {
	return Naming{
		IDWidth: idWidth,
		any:     regexp.MustCompile(fmt.Sprintf(`^%s(\d{%d})\d+%s$`, regexp.QuoteMeta(filePrefix), idWidth, regexp.QuoteMeta(fileExt))),
	}
}

// StationID returns the station segment of a data file name.
func (n Naming) StationID(name string) (string, bool) {
	m := n.any.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (n Naming) stationPattern(stationID string, digits string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(filePrefix+stationID) + `(` + digits + `)` + regexp.QuoteMeta(fileExt) + `$`)
}

// candidate matches any file for stationID: the loose form used to pick the latest file.
func (n Naming) candidate(stationID string) *regexp.Regexp {
	return n.stationPattern(stationID, `\d+`)
}

// strict matches only names whose suffix is a full YYYYMMDDHHMMSS timestamp.
func (n Naming) strict(stationID string) *regexp.Regexp {
	return n.stationPattern(stationID, `\d{14}`)
}

// ParseTimestamp extracts the acquisition time embedded in name. The suffix
// must be a valid calendar date and time; there is no fallback.
func (n Naming) ParseTimestamp(name, stationID string) (time.Time, error) {
	m := n.strict(stationID).FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, errTimestampShape)
	}
	ts, err := time.Parse(rawTimestampLayout, m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, err)
	}
	return ts, nil
}
