package noaa

import (
	"fmt"
	"net/url"
	"strings"
)

// Upstream hosts. tgftp serves raw WMO-headed text; product.php renders the
// same products with selectable formatting; the rest are JSON APIs.
const (
	apiHost     = "https://api.weather.gov"
	tgftpHost   = "https://tgftp.nws.noaa.gov"
	productHost = "https://forecast.weather.gov"
	tidesHost   = "https://api.tidesandcurrents.noaa.gov"
	ndbcHost    = "https://www.ndbc.noaa.gov"

	// seakObsURL is the observation roundup behind the NWS Juneau page.
	seakObsURL = "https://www.weather.gov/source/ajk/allSEAKobs.json"
)

// zoneProductPath is the Juneau zone forecast product covering AKZ317-AKZ332.
const zoneProductPath = "/data/raw/fp/fpak52.pajk.zfp.ajk.txt"

// coastalProductPaths maps coastal waters regions to their tgftp products.
var coastalProductPaths = map[string]string{
	"CWFAJK": "/data/raw/fz/fzak51.pajk.cwf.ajk.txt",
	"CWFAEG": "/data/raw/fz/fzak52.pajk.cwf.aeg.txt",
	"CWFAER": "/data/raw/fz/fzak61.pafc.cwf.aer.txt",
	"CWFALU": "/data/raw/fz/fzak62.pafc.cwf.alu.txt",
	"CWFWCZ": "/data/raw/fz/fzak71.pafg.cwf.wcz.txt",
}

// ZoneForecastURL is the structured forecast for a public zone.
func ZoneForecastURL(zone string) string {
	return fmt.Sprintf("%s/zones/forecast/%s/forecast", apiHost, url.PathEscape(zone))
}

// AlertsURL is the active-alert feed for one zone, land or marine.
func AlertsURL(zone string) string {
	return fmt.Sprintf("%s/alerts/active/zone/%s", apiHost, url.PathEscape(zone))
}

// ZoneProductURL is the raw multi-zone forecast bulletin.
func ZoneProductURL() string {
	return tgftpHost + zoneProductPath
}

// CoastalProductURL is the raw coastal waters forecast for a region. ok is
// false for regions with no mapped product.
func CoastalProductURL(region string) (string, bool) {
	path, ok := coastalProductPaths[region]
	if !ok {
		return "", false
	}
	return tgftpHost + path, true
}

// ProductURL renders a text product (AFD, NPW, ...) issued by one office.
func ProductURL(product, office string) string {
	params := url.Values{
		"site":     {"NWS"},
		"issuedby": {office},
		"product":  {product},
		"format":   {"txt"},
		"version":  {"1"},
		"glossary": {"0"},
	}
	return productHost + "/product.php?" + params.Encode()
}

// TidePredictionsURL is the high/low tide prediction feed for a station.
// An empty date means today in the station's local time.
func TidePredictionsURL(station, date string) string {
	params := url.Values{
		"product":     {"predictions"},
		"application": {"boatsafe"},
		"station":     {station},
		"datum":       {"MLLW"},
		"time_zone":   {"lst_ldt"},
		"units":       {"english"},
		"interval":    {"hilo"},
		"format":      {"json"},
	}
	applyDate(params, date)
	return tidesHost + "/api/prod/datagetter?" + params.Encode()
}

// CurrentPredictionsURL is the current prediction feed for a station.
func CurrentPredictionsURL(station, date string) string {
	params := url.Values{
		"product":     {"currents_predictions"},
		"application": {"boatsafe"},
		"station":     {station},
		"time_zone":   {"lst_ldt"},
		"units":       {"english"},
		"interval":    {"MAX_SLACK"},
		"format":      {"json"},
	}
	applyDate(params, date)
	return tidesHost + "/api/prod/datagetter?" + params.Encode()
}

// BuoyURL is the rolling realtime observation file for an NDBC station.
func BuoyURL(station string) string {
	return fmt.Sprintf("%s/data/realtime2/%s.txt", ndbcHost, url.PathEscape(strings.ToUpper(station)))
}

// SEAKObsURL is the Southeast Alaska observation roundup.
func SEAKObsURL() string {
	return seakObsURL
}

func applyDate(params url.Values, date string) {
	if date == "" {
		params.Set("date", "today")
		return
	}
	params.Set("begin_date", date)
	params.Set("range", "24")
}
