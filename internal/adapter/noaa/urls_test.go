package noaa

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneForecastURL(t *testing.T) {
	assert.Equal(t, "https://api.weather.gov/zones/forecast/AKZ325/forecast", ZoneForecastURL("AKZ325"))
}

func TestAlertsURL(t *testing.T) {
	assert.Equal(t, "https://api.weather.gov/alerts/active/zone/PKZ012", AlertsURL("PKZ012"))
}

func TestZoneProductURL(t *testing.T) {
	assert.Equal(t, "https://tgftp.nws.noaa.gov/data/raw/fp/fpak52.pajk.zfp.ajk.txt", ZoneProductURL())
}

func TestCoastalProductURL(t *testing.T) {
	tests := []struct {
		region string
		want   string
		ok     bool
	}{
		{region: "CWFAJK", want: "https://tgftp.nws.noaa.gov/data/raw/fz/fzak51.pajk.cwf.ajk.txt", ok: true},
		{region: "CWFAER", want: "https://tgftp.nws.noaa.gov/data/raw/fz/fzak61.pafc.cwf.aer.txt", ok: true},
		{region: "CWFXXX", want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			got, ok := CoastalProductURL(tt.region)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProductURL(t *testing.T) {
	u, err := url.Parse(ProductURL("AFD", "AJK"))
	require.NoError(t, err)

	assert.Equal(t, "forecast.weather.gov", u.Host)
	assert.Equal(t, "/product.php", u.Path)

	q := u.Query()
	assert.Equal(t, "NWS", q.Get("site"))
	assert.Equal(t, "AJK", q.Get("issuedby"))
	assert.Equal(t, "AFD", q.Get("product"))
	assert.Equal(t, "txt", q.Get("format"))
	assert.Equal(t, "1", q.Get("version"))
	assert.Equal(t, "0", q.Get("glossary"))
}

func TestTidePredictionsURL(t *testing.T) {
	t.Run("today by default", func(t *testing.T) {
		u, err := url.Parse(TidePredictionsURL("9452210", ""))
		require.NoError(t, err)

		assert.Equal(t, "api.tidesandcurrents.noaa.gov", u.Host)
		assert.Equal(t, "/api/prod/datagetter", u.Path)

		q := u.Query()
		assert.Equal(t, "predictions", q.Get("product"))
		assert.Equal(t, "9452210", q.Get("station"))
		assert.Equal(t, "MLLW", q.Get("datum"))
		assert.Equal(t, "lst_ldt", q.Get("time_zone"))
		assert.Equal(t, "hilo", q.Get("interval"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "today", q.Get("date"))
		assert.Empty(t, q.Get("begin_date"))
	})

	t.Run("explicit date becomes a 24 hour window", func(t *testing.T) {
		u, err := url.Parse(TidePredictionsURL("9452210", "20260825"))
		require.NoError(t, err)

		q := u.Query()
		assert.Equal(t, "20260825", q.Get("begin_date"))
		assert.Equal(t, "24", q.Get("range"))
		assert.Empty(t, q.Get("date"))
	})
}

func TestCurrentPredictionsURL(t *testing.T) {
	u, err := url.Parse(CurrentPredictionsURL("ACT0841", ""))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "currents_predictions", q.Get("product"))
	assert.Equal(t, "ACT0841", q.Get("station"))
	assert.Equal(t, "MAX_SLACK", q.Get("interval"))
	assert.Equal(t, "today", q.Get("date"))
}

func TestBuoyURL(t *testing.T) {
	assert.Equal(t, "https://www.ndbc.noaa.gov/data/realtime2/46083.txt", BuoyURL("46083"))
	assert.Equal(t, "https://www.ndbc.noaa.gov/data/realtime2/LIXA2.txt", BuoyURL("lixa2"))
}

func TestSEAKObsURL(t *testing.T) {
	assert.Equal(t, "https://www.weather.gov/source/ajk/allSEAKobs.json", SEAKObsURL())
}
