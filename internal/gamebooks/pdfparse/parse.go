package pdfparse

import (
	"regexp"
	"strings"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
)

// ParseResult is the structured output of parsing one gamebook PDF. It
// is always returned, even when extraction found little to work with —
// partial data plus a low Confidence beats dropping the gamebook
// entirely.
type ParseResult struct {
	GameID         string
	Venue          string
	Matchup        string
	Referees       []domain.Referee
	Alternates     []domain.RefereeAlternate
	TechnicalFouls []string
	Confidence     float64
	RawText        string
}

var (
	gameIDPattern = regexp.MustCompile(`(?i)game\s*(?:id|#|number)\s*[:\-]?\s*([0-9]{8,10})`)
	venuePattern  = regexp.MustCompile(`(?i)(?:at|venue)\s*[:\-]\s*([A-Z][A-Za-z0-9.,'&\- ]{3,60})`)
	matchupPattern = regexp.MustCompile(`\b([A-Z]{3})\s*(?:@|vs\.?|VS\.?)\s*([A-Z]{3})\b`)

	crewChiefPattern  = regexp.MustCompile(`(?i)crew\s*chief\s*[:\-]\s*([A-Z][A-Za-z.'\- ]+)`)
	refereePattern    = regexp.MustCompile(`(?i)\breferee\s*[:\-]\s*([A-Z][A-Za-z.'\- ]+)`)
	umpirePattern     = regexp.MustCompile(`(?i)\bumpire\s*[:\-]\s*([A-Z][A-Za-z.'\- ]+)`)
	officialPattern   = regexp.MustCompile(`(?i)\bofficial\s*[:\-]\s*([A-Z][A-Za-z.'\- ]+)`)
	alternatePattern  = regexp.MustCompile(`(?i)alternate[s]?\s*[:\-]\s*([A-Z][A-Za-z.'\- ,]+)`)
	technicalPattern  = regexp.MustCompile(`(?i)technical\s+foul[^A-Za-z]{0,10}([A-Z][A-Za-z.'\- ]+)?`)
	properNamePattern = regexp.MustCompile(`\b[A-Z][a-z]+\s[A-Z][a-z]+\b`)
)

// Parse extracts text from raw and runs section detection over it. The
// returned ParseResult is populated best-effort: missing sections leave
// their fields empty rather than failing the whole parse, per the
// "robust to missing sections" requirement.
func Parse(raw []byte) (ParseResult, error) {
	text, err := ExtractText(raw)
	if err != nil {
		return ParseResult{}, err
	}
	return parseText(text), nil
}

func parseText(text string) ParseResult {
	result := ParseResult{RawText: text}

	if m := gameIDPattern.FindStringSubmatch(text); m != nil {
		result.GameID = m[1]
	}
	if m := venuePattern.FindStringSubmatch(text); m != nil {
		result.Venue = strings.TrimSpace(m[1])
	}
	if m := matchupPattern.FindStringSubmatch(text); m != nil {
		result.Matchup = m[1] + " @ " + m[2]
	}

	refereeHits := 0
	position := 0
	for _, m := range crewChiefPattern.FindAllStringSubmatch(text, -1) {
		result.Referees = append(result.Referees, newReferee(m[1], domain.RoleCrewChief, position))
		position++
		refereeHits++
	}
	for _, m := range refereePattern.FindAllStringSubmatch(text, -1) {
		result.Referees = append(result.Referees, newReferee(m[1], domain.RoleReferee, position))
		position++
		refereeHits++
	}
	for _, m := range umpirePattern.FindAllStringSubmatch(text, -1) {
		result.Referees = append(result.Referees, newReferee(m[1], domain.RoleUmpire, position))
		position++
		refereeHits++
	}
	for _, m := range officialPattern.FindAllStringSubmatch(text, -1) {
		result.Referees = append(result.Referees, newReferee(m[1], domain.RoleOfficial, position))
		position++
		refereeHits++
	}

	if m := alternatePattern.FindStringSubmatch(text); m != nil {
		for _, name := range strings.Split(m[1], ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			result.Alternates = append(result.Alternates, domain.RefereeAlternate{
				Slug: slugify(name),
				Name: name,
			})
			refereeHits++
		}
	}

	for _, m := range technicalPattern.FindAllStringSubmatch(text, -1) {
		name := ""
		if len(m) > 1 {
			name = strings.TrimSpace(m[1])
		}
		result.TechnicalFouls = append(result.TechnicalFouls, name)
	}

	properNameHits := len(properNamePattern.FindAllString(text, -1))
	result.Confidence = confidence(len(text), refereeHits, properNameHits)

	return result
}

func newReferee(name string, role domain.RefereeRole, position int) domain.Referee {
	name = strings.TrimSpace(name)
	return domain.Referee{
		Slug:         slugify(name),
		Name:         name,
		Role:         role,
		CrewPosition: position,
	}
}

func confidence(textLen, refereeHits, properNameHits int) float64 {
	lengthScore := clamp(float64(textLen)/2000, 0, 0.4)
	refereeScore := clamp(float64(refereeHits)/5, 0, 0.4)
	nameScore := clamp(float64(properNameHits)/10, 0, 0.2)
	return clamp(lengthScore+refereeScore+nameScore, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
