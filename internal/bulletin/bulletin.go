package bulletin

import "errors"

// ErrSectionNotFound reports that a bulletin does not contain a section for
// the requested zone. Callers distinguish it from upstream failures with
// errors.Is.
var ErrSectionNotFound = errors.New("section not found")

// Section is one zone's slice of a multi-zone product.
type Section struct {
	// ID is the zone token the section was sliced for, e.g. "AKZ317".
	ID string `json:"id"`
	// Header is the line the zone token appeared on (the UGC header).
	Header string `json:"header,omitempty"`
	// Text is the section body below the header, trimmed.
	Text string `json:"text"`
}

// Period is a single forecast period within a section.
type Period struct {
	Name    string   `json:"name"`
	Text    string   `json:"detailedForecast"`
	Wind    *Wind    `json:"wind,omitempty"`
	Waves   *Waves   `json:"waves,omitempty"`
	Weather *Weather `json:"weather,omitempty"`
}

// Wind is an extracted wind group. Speeds are in the unit the product used
// (knots for marine products). MaxSpeed is zero when the phrase carried a
// single value.
type Wind struct {
	Direction     string  `json:"direction,omitempty"`
	DirectionName string  `json:"directionName,omitempty"`
	Speed         float64 `json:"speed"`
	MaxSpeed      float64 `json:"maxSpeed,omitempty"`
	Description   string  `json:"description"`
}

// Waves is an extracted sea-state group, in feet.
type Waves struct {
	Height      float64 `json:"height"`
	MaxHeight   float64 `json:"maxHeight,omitempty"`
	Description string  `json:"description"`
}

// Weather lists the recognized condition keywords found in a period.
type Weather struct {
	Conditions  []string `json:"conditions"`
	Description string   `json:"description"`
}

// Annotate fills a period's Wind, Waves, and Weather from its text.
// Fields stay nil when the text has no matching phrase.
func Annotate(p Period) Period {
	p.Wind = ParseWind(p.Text)
	p.Waves = ParseWaves(p.Text)
	p.Weather = ParseWeather(p.Text)
	return p
}
