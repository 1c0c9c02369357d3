package nws

// Zone is a catalog entry with its user-facing name.
type Zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// publicZones are the Southeast Alaska public forecast zones (AKZ317-AKZ332).
var publicZones = []Zone{
	{ID: "AKZ317", Name: "Haines Borough and Lutak Inlet"},
	{ID: "AKZ318", Name: "Glacier Bay"},
	{ID: "AKZ319", Name: "Eastern Chichagof Island"},
	{ID: "AKZ320", Name: "Salisbury Sound to Cape Fairweather Coastal Area"},
	{ID: "AKZ321", Name: "Juneau Borough and Northern Admiralty Island"},
	{ID: "AKZ322", Name: "Taku Inlet and Southern Lynn Canal"},
	{ID: "AKZ323", Name: "Western Admiralty Island"},
	{ID: "AKZ324", Name: "Gustavus to Icy Strait Coastal Area"},
	{ID: "AKZ325", Name: "Sitka Sound to Salisbury Sound"},
	{ID: "AKZ326", Name: "Kupreanof and Mitkof Islands"},
	{ID: "AKZ327", Name: "Baranof Island and Southern Chichagof Island"},
	{ID: "AKZ328", Name: "Wrangell Borough and Etolin Island"},
	{ID: "AKZ329", Name: "Prince of Wales Island"},
	{ID: "AKZ330", Name: "Ketchikan Gateway Borough"},
	{ID: "AKZ331", Name: "Misty Fjords"},
	{ID: "AKZ332", Name: "Annette Island and Southern Revillagigedo Channel"},
}

// marineZones are the Southeast Alaska coastal waters zones.
var marineZones = []Zone{
	{ID: "PKZ011", Name: "Glacier Bay"},
	{ID: "PKZ012", Name: "Northern Lynn Canal"},
	{ID: "PKZ013", Name: "Southern Lynn Canal"},
	{ID: "PKZ021", Name: "Icy Strait"},
	{ID: "PKZ022", Name: "Cross Sound"},
	{ID: "PKZ031", Name: "Stephens Passage"},
	{ID: "PKZ032", Name: "Northern Chatham Strait"},
	{ID: "PKZ033", Name: "Southern Chatham Strait"},
	{ID: "PKZ034", Name: "Frederick Sound"},
	{ID: "PKZ035", Name: "Sumner Strait"},
	{ID: "PKZ036", Name: "Clarence Strait"},
	{ID: "PKZ041", Name: "Dixon Entrance to Cape Decision"},
	{ID: "PKZ042", Name: "Cape Decision to Cape Edgecumbe"},
	{ID: "PKZ043", Name: "Cape Edgecumbe to Cape Spencer"},
	{ID: "PKZ051", Name: "Cape Spencer to Cape Fairweather"},
	{ID: "PKZ052", Name: "Cape Fairweather to Icy Cape"},
	{ID: "PKZ053", Name: "Icy Cape to Cape Suckling"},
}

// coastalRegions are the coastal waters forecast products by issuing office.
var coastalRegions = []Zone{
	{ID: "CWFAJK", Name: "Southeast Alaska Inner Channels"},
	{ID: "CWFAEG", Name: "Southeast Alaska Outer Coast"},
	{ID: "CWFAER", Name: "Southcentral Alaska Coast"},
	{ID: "CWFALU", Name: "Southwest Alaska and the Aleutians"},
	{ID: "CWFWCZ", Name: "Western Alaska Coast"},
}

// offices are the Alaska forecast offices whose discussions are served.
var offices = []Zone{
	{ID: "AJK", Name: "Juneau"},
	{ID: "AFC", Name: "Anchorage"},
	{ID: "AFG", Name: "Fairbanks"},
}

// warningTypes are the text warning products the warnings endpoint serves.
var warningTypes = []Zone{
	{ID: "NPW", Name: "Non-Precipitation Warnings"},
	{ID: "WSW", Name: "Winter Storm Warnings"},
	{ID: "SPS", Name: "Special Weather Statements"},
	{ID: "CFW", Name: "Coastal Flood Warnings"},
	{ID: "MWS", Name: "Marine Weather Statements"},
}

// zonePairs links each marine zone to the public zone covering the adjacent
// shore. Alerts for a location are gathered from both sides of the pair.
var zonePairs = map[string]string{
	"PKZ011": "AKZ318",
	"PKZ012": "AKZ317",
	"PKZ013": "AKZ322",
	"PKZ021": "AKZ324",
	"PKZ022": "AKZ324",
	"PKZ031": "AKZ321",
	"PKZ032": "AKZ323",
	"PKZ033": "AKZ327",
	"PKZ034": "AKZ326",
	"PKZ035": "AKZ329",
	"PKZ036": "AKZ330",
	"PKZ041": "AKZ329",
	"PKZ042": "AKZ327",
	"PKZ043": "AKZ325",
	"PKZ051": "AKZ320",
	"PKZ052": "AKZ320",
	"PKZ053": "AKZ320",
}

var (
	publicZonesByID    = indexZones(publicZones)
	marineZonesByID    = indexZones(marineZones)
	coastalRegionsByID = indexZones(coastalRegions)
	officesByID        = indexZones(offices)
	warningTypesByID   = indexZones(warningTypes)

	// landToMarine is zonePairs reversed; for shores touched by several
	// marine zones the first in catalog order wins.
	landToMarine = reversePairs()
)

// Zones returns the catalog for a zone-like family, in display order.
// Station families and unknown families return nil.
func Zones(f Family) []Zone {
	switch f {
	case PublicZone:
		return publicZones
	case MarineZone:
		return marineZones
	case CoastalRegion:
		return coastalRegions
	case Office:
		return offices
	case WarningType:
		return warningTypes
	default:
		return nil
	}
}

// ZoneName returns the display name for a known zone-like id, or "" when the
// id is outside every catalog.
func ZoneName(id string) string {
	for _, byID := range []map[string]Zone{
		publicZonesByID, marineZonesByID, coastalRegionsByID, officesByID, warningTypesByID,
	} {
		if z, ok := byID[id]; ok {
			return z.Name
		}
	}
	return ""
}

// PairedZone returns the land zone paired with a marine zone or vice versa.
// ok is false when the id has no pairing.
func PairedZone(id string) (string, bool) {
	if land, ok := zonePairs[id]; ok {
		return land, true
	}
	if marine, ok := landToMarine[id]; ok {
		return marine, true
	}
	return "", false
}

func indexZones(zones []Zone) map[string]Zone {
	byID := make(map[string]Zone, len(zones))
	for _, z := range zones {
		byID[z.ID] = z
	}
	return byID
}

func reversePairs() map[string]string {
	reversed := make(map[string]string, len(zonePairs))
	for _, z := range marineZones {
		land, ok := zonePairs[z.ID]
		if !ok {
			continue
		}
		if _, taken := reversed[land]; !taken {
			reversed[land] = z.ID
		}
	}
	return reversed
}
