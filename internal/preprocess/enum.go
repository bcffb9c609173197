package preprocess

import (
	"strconv"
	"strings"

	"github.com/preston-bernstein/nba-ingest-core/internal/logging"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
)

// enumSuffixes are field-name suffixes that mark a column as
// enum-valued; any matching field is routed through MapEnum.
var enumSuffixes = []string{"_TYPE", "_STATUS", "_ROLE", "_RESULT", "_ZONE", "_KIND", "_CODE"}

// enumAllowlist names additional fields that are enum-valued despite not
// matching a suffix pattern.
var enumAllowlist = map[string]struct{}{
	"EVENTMSGTYPE": {},
	"WL":           {},
}

// IsEnumField reports whether field should be routed through MapEnum
// based on its suffix or the explicit allowlist.
func IsEnumField(field string) bool {
	upper := strings.ToUpper(field)
	if _, ok := enumAllowlist[upper]; ok {
		return true
	}
	for _, suffix := range enumSuffixes {
		if strings.HasSuffix(upper, suffix) {
			return true
		}
	}
	return false
}

// eventMessageTypes maps the NBA stats EVENTMSGTYPE integer code to its
// canonical string token.
var eventMessageTypes = map[int]string{
	1:  "shot",
	2:  "shot",
	3:  "free_throw",
	4:  "rebound",
	5:  "turnover",
	6:  "foul",
	8:  "substitution",
	9:  "timeout",
	10: "jump_ball",
	11: "ejection",
	12: "period_begin",
	13: "period_end",
	18: "instant_replay",
}

// defaultEventMessageType is the safe fallback for an EVENTMSGTYPE code
// this core doesn't recognize, applied alongside a schema_drift metric
// per spec Testable Property #3.
const defaultEventMessageType = "shot"

// MapEnum stringifies value and, for the known EVENTMSGTYPE field, maps
// a vendor integer code to its canonical token. Unknown codes fall back
// to defaultEventMessageType and record a schema_drift metric/log rather
// than failing the row.
func MapEnum(vendor, field string, value any, rec *metrics.Recorder) string {
	s, ok := ToStringOrNone(value)
	if !ok {
		return ""
	}

	if strings.ToUpper(field) != "EVENTMSGTYPE" {
		return s
	}

	code, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	if token, ok := eventMessageTypes[code]; ok {
		return token
	}

	rec.RecordSchemaDrift(vendor, field)
	logging.Warn(nil, "preprocess: unrecognized EVENTMSGTYPE",
		logging.FieldField, field, logging.FieldValue, s)
	return defaultEventMessageType
}
