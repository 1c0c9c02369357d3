package noaa

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const zoneForecastBody = `{
  "properties": {
    "updated": "2026-08-22T12:30:00+00:00",
    "periods": [
      {"number": 1, "name": "This Afternoon", "detailedForecast": "Rain. Highs in the upper 50s."},
      {"number": 2, "name": "Tonight", "detailedForecast": "Rain showers. Lows around 50."}
    ]
  }
}`

const alertsBody = `{
  "features": [
    {
      "properties": {
        "id": "urn:oid:2.49.0.1.840.0.1111",
        "event": "Small Craft Advisory",
        "headline": "Small Craft Advisory issued August 22",
        "severity": "Minor",
        "urgency": "Expected",
        "onset": "2026-08-22T10:00:00-08:00",
        "ends": "2026-08-23T04:00:00-08:00",
        "areaDesc": "Stephens Passage",
        "description": "Southeast winds 25 kt expected.",
        "instruction": "Inexperienced mariners should avoid navigating in hazardous conditions."
      }
    },
    {
      "properties": {
        "id": "urn:oid:2.49.0.1.840.0.2222",
        "event": "Gale Warning",
        "severity": "Moderate"
      }
    }
  ]
}`

const tideBody = `{
  "predictions": [
    {"t": "2026-08-22 04:12", "v": "16.23", "type": "H"},
    {"t": "2026-08-22 10:41", "v": "-1.05", "type": "L"}
  ]
}`

const tideErrorBody = `{"error": {"message": "No Predictions data was found."}}`

const currentsBody = `{
  "current_predictions": {
    "units": "knots",
    "cp": [
      {"Time": "2026-08-22 03:18", "Velocity_Major": 2.41, "Type": "flood"},
      {"Time": "2026-08-22 06:02", "Velocity_Major": 0.0, "Type": "slack"},
      {"Time": "2026-08-22 09:27", "Velocity_Major": -3.12, "Type": "ebb"}
    ]
  }
}`

const buoyBody = `#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS PTDY  TIDE
#yr  mo dy hr mn degT m/s  m/s     m   sec   sec degT   hPa  degC  degC  degC  nmi  hPa    ft
2026 08 22 15 50 140  8.0 10.0   1.2     7   5.4 150 1013.2  12.8  11.9    MM   MM -1.1    MM
2026 08 22 14 50 130  7.0  9.0   1.1     7   5.2 145 1014.0  12.5  11.9    MM   MM -0.9    MM
2026 08 22 13 50  MM   MM   MM   1.0     6   5.0 140 1014.5  12.1    MM    MM   MM  0.2    MM
`

func TestDecodeZoneForecast(t *testing.T) {
	zf, err := DecodeZoneForecast([]byte(zoneForecastBody))
	require.NoError(t, err)

	require.Len(t, zf.Properties.Periods, 2)
	assert.Equal(t, "This Afternoon", zf.Properties.Periods[0].Name)
	assert.Equal(t, "Rain. Highs in the upper 50s.", zf.Properties.Periods[0].DetailedForecast)
	assert.Equal(t, 2, zf.Properties.Periods[1].Number)
}

func TestDecodeZoneForecast_Malformed(t *testing.T) {
	_, err := DecodeZoneForecast([]byte("<html>maintenance</html>"))
	require.Error(t, err)
}

func TestDecodeAlerts(t *testing.T) {
	alerts, err := DecodeAlerts([]byte(alertsBody))
	require.NoError(t, err)

	require.Len(t, alerts, 2)
	assert.Equal(t, "Small Craft Advisory", alerts[0].Event)
	assert.Equal(t, "Stephens Passage", alerts[0].AreaDesc)
	assert.Equal(t, "Gale Warning", alerts[1].Event)
	assert.Empty(t, alerts[1].Headline)
}

func TestDecodeAlerts_EmptyFeed(t *testing.T) {
	alerts, err := DecodeAlerts([]byte(`{"features": []}`))
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestDecodeTidePredictions(t *testing.T) {
	predictions, err := DecodeTidePredictions([]byte(tideBody))
	require.NoError(t, err)

	require.Len(t, predictions, 2)
	assert.Equal(t, "2026-08-22 04:12", predictions[0].Time)
	assert.Equal(t, Level(16.23), predictions[0].Level)
	assert.Equal(t, "H", predictions[0].Type)
	assert.Equal(t, Level(-1.05), predictions[1].Level)
}

func TestDecodeTidePredictions_InBandError(t *testing.T) {
	_, err := DecodeTidePredictions([]byte(tideErrorBody))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No Predictions data was found")
}

func TestDecodeCurrentPredictions(t *testing.T) {
	predictions, err := DecodeCurrentPredictions([]byte(currentsBody))
	require.NoError(t, err)

	require.Len(t, predictions, 3)
	assert.Equal(t, "flood", predictions[0].Type)
	assert.Equal(t, 2.41, predictions[0].Velocity)
	assert.Equal(t, "ebb", predictions[2].Type)
	assert.Equal(t, -3.12, predictions[2].Velocity)
}

func TestLevel_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Level
		wantErr bool
	}{
		{name: "quoted decimal", input: `"16.23"`, want: 16.23},
		{name: "quoted negative", input: `"-1.05"`, want: -1.05},
		{name: "bare number", input: `2.5`, want: 2.5},
		{name: "null", input: `null`, want: 0},
		{name: "empty string", input: `""`, want: 0},
		{name: "garbage", input: `"n/a"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l Level
			err := l.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, l)
		})
	}
}

func TestParseBuoyObservations(t *testing.T) {
	observations, err := ParseBuoyObservations([]byte(buoyBody), 0)
	require.NoError(t, err)
	require.Len(t, observations, 3)

	first := observations[0]
	assert.Equal(t, time.Date(2026, time.August, 22, 15, 50, 0, 0, time.UTC), first.Time)
	require.NotNil(t, first.WindDirection)
	assert.Equal(t, 140.0, *first.WindDirection)
	require.NotNil(t, first.WindSpeed)
	assert.Equal(t, 8.0, *first.WindSpeed)
	require.NotNil(t, first.WaveHeight)
	assert.Equal(t, 1.2, *first.WaveHeight)
	require.NotNil(t, first.Pressure)
	assert.Equal(t, 1013.2, *first.Pressure)
}

func TestParseBuoyObservations_MissingValues(t *testing.T) {
	observations, err := ParseBuoyObservations([]byte(buoyBody), 0)
	require.NoError(t, err)

	calm := observations[2]
	assert.Nil(t, calm.WindDirection)
	assert.Nil(t, calm.WindSpeed)
	assert.Nil(t, calm.Gust)
	assert.Nil(t, calm.WaterTemp)
	require.NotNil(t, calm.WaveHeight)
	assert.Equal(t, 1.0, *calm.WaveHeight)
}

func TestParseBuoyObservations_Limit(t *testing.T) {
	observations, err := ParseBuoyObservations([]byte(buoyBody), 2)
	require.NoError(t, err)
	require.Len(t, observations, 2)
	assert.Equal(t, 15, observations[0].Time.Hour())
	assert.Equal(t, 14, observations[1].Time.Hour())
}

func TestParseBuoyObservations_NoHeader(t *testing.T) {
	_, err := ParseBuoyObservations([]byte("2026 08 22 15 50 140 8.0\n"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no column header")
}

func TestParseBuoyObservations_ShortRow(t *testing.T) {
	body := "#YY MM DD hh mm WSPD\n#yr mo dy hr mn m/s\n2026 08 22\n"
	_, err := ParseBuoyObservations([]byte(body), 0)
	require.Error(t, err)
}

func TestValidJSON(t *testing.T) {
	assert.NoError(t, ValidJSON([]byte(`{"Juneau": {"temp": "54"}}`)))
	assert.Error(t, ValidJSON([]byte("<html>502 Bad Gateway</html>")))
}
