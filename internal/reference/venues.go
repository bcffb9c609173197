package reference

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Venue is one arena's location, used by the schedule/travel derivation
// for distance, altitude, and timezone-shift computation.
type Venue struct {
	TeamID    string
	ArenaName string
	TZ        string
	Lat       float64
	Lon       float64
	AltitudeM float64
}

// LoadVenues reads venues.csv (team_id, arena_name, tz, lat, lon,
// altitude_m). No CSV library appears anywhere in the example pack, and
// the original Python source uses its stdlib csv module for this same
// file, so encoding/csv is a faithful match rather than a fallback.
func LoadVenues(path string) (map[string]Venue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reference: open venues: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reference: parse venues: %w", err)
	}
	if len(records) == 0 {
		return map[string]Venue{}, nil
	}

	header := records[0]
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}

	venues := make(map[string]Venue, len(records)-1)
	for _, row := range records[1:] {
		v := Venue{
			TeamID:    field(row, col, "team_id"),
			ArenaName: field(row, col, "arena_name"),
			TZ:        field(row, col, "tz"),
		}
		v.Lat, _ = strconv.ParseFloat(field(row, col, "lat"), 64)
		v.Lon, _ = strconv.ParseFloat(field(row, col, "lon"), 64)
		v.AltitudeM, _ = strconv.ParseFloat(field(row, col, "altitude_m"), 64)
		venues[v.TeamID] = v
	}
	return venues, nil
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
