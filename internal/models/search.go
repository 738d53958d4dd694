package models

import (
	"fmt"
	"strings"
)

// SearchMode selects which filters of a search request are honoured.
type SearchMode string

const (
	ModeRadius    SearchMode = "r"
	ModeDriveTime SearchMode = "d"
	ModeBoth      SearchMode = "b"
)

// ParseSearchMode accepts the short codes and their long names. An empty
// string means ModeBoth.
func ParseSearchMode(s string) (SearchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "b", "both":
		return ModeBoth, nil
	case "r", "radius":
		return ModeRadius, nil
	case "d", "drive", "drivetime", "drive-time":
		return ModeDriveTime, nil
	default:
		return "", fmt.Errorf("unknown search mode %q (want r, d or b)", s)
	}
}

// Params builds SearchParams, dropping the filter the mode does not use.
func (m SearchMode) Params(address string, radiusMiles, maxDriveTimeMinutes *float64) SearchParams {
	p := SearchParams{Address: address}
	if m == ModeRadius || m == ModeBoth {
		p.RadiusMiles = radiusMiles
	}
	if m == ModeDriveTime || m == ModeBoth {
		p.MaxDriveTimeMinutes = maxDriveTimeMinutes
	}
	return p
}
