// Package bulletin parses National Weather Service (NWS) raw-text products.
//
// # Data Source
//
// Raw bulletins come from the NWS text-product servers (tgftp.nws.noaa.gov and
// forecast.weather.gov/product.php): zone forecast products (ZFP), coastal
// waters forecasts (CWF), area forecast discussions (AFD), and non-precip
// warning products. They are fixed-format plain text, one product containing
// many zone sections, hard-wrapped near 66 columns.
//
// # NWS Text Conventions
//
// Zone sections:
//
//	A section begins at the line carrying its Universal Geographic Code (UGC)
//	zone token, e.g. "AKZ317" or "PKZ022", and runs until the next zone token
//	or the product terminator "$$". Combined headers list several zones on one
//	line ("AKZ317-318-221015-"). UGC header lines end with a trailing dash,
//	which is how coastal waters sub-sections are detected when the zone list
//	itself is what varies.
//
// Forecast periods:
//
//	Period headers are dotted lines of the form ".NAME...", e.g. ".TODAY...",
//	".SAT NIGHT...", ".REST OF TONIGHT...". Text before the first header is
//	the synopsis. The same convention marks AFD sections (".SHORT TERM...").
//
// Wind and sea phrases (marine products, knots and feet):
//
//	"SE WIND 15 TO 25 KT"   →  direction SE, 15 low, 25 high
//	"WINDS 10 KT"           →  no direction, 10 kt
//	"SEAS 4 FT"             →  4 ft
//	"WAVES 2 TO 4 FT"       →  2 ft low, 4 ft high
//	Directions use the 16-point compass rose plus "VRB"/"VARIABLE".
//
// Qualitative bands (project labels for user-facing summaries):
//
//	Wind:  <7 kt Light | <17 Moderate | <27 Fresh | <34 Strong | <48 Gale | ≥48 Storm
//	Seas:  <2 ft Calm | <4 Light | <6 Moderate | <10 Rough | ≥10 Very rough
//
// Issuance timestamps:
//
//	"330 AM AKDT Sat Aug 22 2026" on its own line near the product head.
//	Some products carry "Issued at ..." prefixes or MM/DD/YYYY forms instead.
//	Extraction tries each known pattern in order and keeps the first match;
//	the matched string is returned verbatim, not parsed into a time.Time.
//
// All extractors are pure functions over strings. A zone section that cannot
// be found is reported as [ErrSectionNotFound]; missing wind/sea/weather
// fields are nil, never errors, because narrative periods legitimately omit
// them ("light winds becoming variable").
package bulletin
