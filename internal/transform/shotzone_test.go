package transform

import (
	"testing"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
)

func TestClassifyShotZoneBuckets(t *testing.T) {
	cases := []struct {
		name       string
		distanceFt float64
		x          float64
		want       domain.ShotZone
	}{
		{"restricted area", 3.0, 0, domain.ZoneRestrictedArea},
		{"paint", 8.0, 2, domain.ZonePaint},
		{"mid range", 18.0, 5, domain.ZoneMidRange},
		{"corner three", 23.5, 23, domain.ZoneCornerThree},
		{"above the break three", 26.0, 10, domain.ZoneAboveBreakThree},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ClassifyShotZone(c.distanceFt, c.x)
			if got != c.want {
				t.Errorf("ClassifyShotZone(%v, %v) = %v, want %v", c.distanceFt, c.x, got, c.want)
			}
		})
	}
}

func TestClassifyShotZoneCornerUsesAbsoluteX(t *testing.T) {
	got := ClassifyShotZone(23.5, -23)
	if got != domain.ZoneCornerThree {
		t.Errorf("got %v, want corner three for negative x beyond threshold", got)
	}
}
