package bulletin

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// compassOrder lists direction tokens longest-first so the alternation
// prefers "NNE" over "N".
var compassOrder = []string{
	"VARIABLE", "NNE", "ENE", "ESE", "SSE", "SSW", "WSW", "WNW", "NNW",
	"VRB", "NE", "SE", "SW", "NW", "N", "S", "E", "W",
}

// compassNames maps 16-point compass tokens to full names.
var compassNames = map[string]string{
	"N":        "north",
	"NNE":      "north-northeast",
	"NE":       "northeast",
	"ENE":      "east-northeast",
	"E":        "east",
	"ESE":      "east-southeast",
	"SE":       "southeast",
	"SSE":      "south-southeast",
	"S":        "south",
	"SSW":      "south-southwest",
	"SW":       "southwest",
	"WSW":      "west-southwest",
	"W":        "west",
	"WNW":      "west-northwest",
	"NW":       "northwest",
	"NNW":      "north-northwest",
	"VRB":      "variable",
	"VARIABLE": "variable",
}

var compassAlternation = strings.Join(compassOrder, "|")

// compassPoints in rose order, 22.5 degrees apart starting at north.
var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Compass converts a bearing in degrees to its 16-point token, e.g.
// 192 to "SSW". Bearings outside [0, 360) wrap.
func Compass(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return compassPoints[int((deg+11.25)/22.5)%len(compassPoints)]
}

// windRule binds a wind phrase pattern to the submatch indexes of its fields.
// A zero index means the rule does not capture that field.
type windRule struct {
	re          *regexp.Regexp
	dir, lo, hi int
}

// windRules are tried in order; the first match wins.
var windRules = []windRule{
	// "SE WIND 15 TO 25 KT", "NW WINDS 20 KT"
	{
		re:  regexp.MustCompile(`(?i)\b(` + compassAlternation + `)\s+winds?\s+(\d+)(?:\s+to\s+(\d+))?\s*(?:kt|knots|mph)\b`),
		dir: 1, lo: 2, hi: 3,
	},
	// "WIND 15 TO 25 KT SE" — value before direction
	{
		re:  regexp.MustCompile(`(?i)\bwinds?\s+(\d+)(?:\s+to\s+(\d+))?\s*(?:kt|knots|mph)\s+(?:from\s+the\s+)?(` + compassAlternation + `)\b`),
		dir: 3, lo: 1, hi: 2,
	},
	// "WINDS 10 KT" — no direction
	{
		re: regexp.MustCompile(`(?i)\bwinds?\s+(\d+)(?:\s+to\s+(\d+))?\s*(?:kt|knots|mph)\b`),
		lo: 1, hi: 2,
	},
}

// waveRule binds a sea-state phrase pattern to its height submatch indexes.
type waveRule struct {
	re     *regexp.Regexp
	lo, hi int
}

// waveRules are tried in order; the first match wins.
var waveRules = []waveRule{
	// "SEAS 4 FT", "WAVES 2 TO 4 FT"
	{
		re: regexp.MustCompile(`(?i)\b(?:seas|waves)\s+(\d+(?:\.\d+)?)(?:\s+to\s+(\d+(?:\.\d+)?))?\s*(?:ft|feet)\b`),
		lo: 1, hi: 2,
	},
	// "SEAS BUILDING TO 8 FT"
	{
		re: regexp.MustCompile(`(?i)\b(?:seas|waves)\s+(?:building|subsiding)\s+to\s+(\d+(?:\.\d+)?)\s*(?:ft|feet)\b`),
		lo: 1,
	},
}

// weatherKeywords are matched longest-first so "partly cloudy" claims its
// words before "cloudy" can.
var weatherKeywords = []string{
	"freezing spray", "partly cloudy", "thunderstorms", "showers", "drizzle",
	"overcast", "cloudy", "sunny", "clear", "rain", "snow", "fog",
}

// issueTimeRules are tried in order; the first match is returned verbatim.
// No cross-validation between patterns.
var issueTimeRules = []*regexp.Regexp{
	// "330 AM AKDT Sat Aug 22 2026"
	regexp.MustCompile(`(?i)\b\d{1,2}:?\d{2}\s+(?:AM|PM)\s+(?:AK[DS]T|[AHPMCE][DS]T|UTC)\s+[A-Za-z]{3}\s+[A-Za-z]{3}\s+\d{1,2}\s+\d{4}\b`),
	// "08/22/2026 3:30 AM", bare "08/22/2026"
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}(?:\s+\d{1,2}:\d{2}\s*(?:AM|PM)?)?\b`),
	// "Issued at 330 AM AKDT..." — keep everything after the prefix
	regexp.MustCompile(`(?im)^\s*issued(?:\s+at|:)?\s+(.+)$`),
}

// ParseWind extracts the first wind group from a period's text. Returns nil
// when no rule matches.
func ParseWind(text string) *Wind {
	for _, rule := range windRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		w := Wind{Speed: parseFloatOrZero(m[rule.lo])}
		if rule.hi != 0 {
			w.MaxSpeed = parseFloatOrZero(m[rule.hi])
		}
		if rule.dir != 0 && m[rule.dir] != "" {
			w.Direction = strings.ToUpper(m[rule.dir])
			w.DirectionName = compassNames[w.Direction]
		}
		w.Description = describeWind(max(w.Speed, w.MaxSpeed))
		return &w
	}
	return nil
}

// ParseWaves extracts the first sea-state group from a period's text.
// Returns nil when no rule matches.
func ParseWaves(text string) *Waves {
	for _, rule := range waveRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		w := Waves{Height: parseFloatOrZero(m[rule.lo])}
		if rule.hi != 0 {
			w.MaxHeight = parseFloatOrZero(m[rule.hi])
		}
		w.Description = describeWaves(max(w.Height, w.MaxHeight))
		return &w
	}
	return nil
}

// ParseWeather scans a period's text for known condition keywords. Matched
// spans are blanked so a longer keyword suppresses the shorter ones inside
// it. Returns nil when nothing matches.
func ParseWeather(text string) *Weather {
	lower := strings.ToLower(text)

	var found []string
	for _, kw := range weatherKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
			lower = strings.ReplaceAll(lower, kw, " ")
		}
	}
	if len(found) == 0 {
		return nil
	}

	return &Weather{Conditions: found, Description: strings.Join(found, ", ")}
}

// ParseIssueTime extracts a product's issuance timestamp as the raw matched
// string, e.g. "330 AM AKDT Sat Aug 22 2026". Empty when no pattern matches.
func ParseIssueTime(text string) string {
	for _, re := range issueTimeRules {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 && m[1] != "" {
			return strings.TrimSpace(m[1])
		}
		return strings.TrimSpace(m[0])
	}
	return ""
}

// describeWind maps a speed in knots to a qualitative label. Band edges
// follow the Beaufort scale; Gale and Storm split at 48 kt.
func describeWind(kt float64) string {
	switch {
	case kt < 7:
		return "Light"
	case kt < 17:
		return "Moderate"
	case kt < 27:
		return "Fresh"
	case kt < 34:
		return "Strong"
	case kt < 48:
		return "Gale"
	default:
		return "Storm"
	}
}

// describeWaves maps a wave height in feet to a qualitative label.
func describeWaves(ft float64) string {
	switch {
	case ft < 2:
		return "Calm"
	case ft < 4:
		return "Light"
	case ft < 6:
		return "Moderate"
	case ft < 10:
		return "Rough"
	default:
		return "Very rough"
	}
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
