package dyson

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanSpeedRoundTrip(t *testing.T) {
	for speed := 1; speed <= 10; speed++ {
		input := strconv.Itoa(speed)
		fields, err := encodeFanSpeed(input)
		require.NoError(t, err)
		assert.Equal(t, input, decodeFanSpeed(fields[fieldFanSpeed]))
		assert.Len(t, fields[fieldFanSpeed], 4)
	}

	fields, err := encodeFanSpeed("auto")
	require.NoError(t, err)
	assert.Equal(t, FanSpeedAuto, decodeFanSpeed(fields[fieldFanSpeed]))
}

func TestDecodeFanSpeed(t *testing.T) {
	assert.Equal(t, "7", decodeFanSpeed("0007"))
	assert.Equal(t, "10", decodeFanSpeed("0010"))
	assert.Equal(t, FanSpeedAuto, decodeFanSpeed("AUTO"))
}

func TestKelvinTenthsToCelsius(t *testing.T) {
	tests := []struct {
		tenths float64
		want   float64
	}{
		{2982, 25.0},
		{2931, 20.0},
		{2930, 19.8},
		{2732, 0.0},
		{2984, 25.2},
		{3000, 26.8},
		{2700, -3.2},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, kelvinTenthsToCelsius(tt.tenths), 1e-9, "tact=%v", tt.tenths)
	}
}

func TestParseWireState(t *testing.T) {
	state, err := parseWireState([]byte(`{"fpwr":"ON","fnsp":"0004","rhtm":"ON"}`))
	require.NoError(t, err)
	assert.Equal(t, WireState{"fpwr": "ON", "fnsp": "0004", "rhtm": "ON"}, state)

	status := toStatus(state)
	assert.True(t, status.Power)
	assert.Equal(t, "4", status.FanSpeed)
	assert.Nil(t, status.AirQuality)
}

func TestParseWireStateErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{"not an object", `["fpwr"]`, "state"},
		{"null", `null`, "state"},
		{"garbage", `{`, "state"},
		{"non-string value", `{"fpwr":"ON","fnsp":7}`, "fnsp"},
		{"missing power", `{"fnsp":"0001"}`, "fpwr"},
		{"missing fan speed", `{"fpwr":"ON"}`, "fnsp"},
		{"bad fan speed", `{"fpwr":"ON","fnsp":"FAST"}`, "fnsp"},
		{"bad sensor", `{"fpwr":"ON","fnsp":"0001","pm25":"INIT"}`, "pm25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseWireState([]byte(tt.payload))
			var parseErr ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.field, parseErr.Field)
		})
	}
}

func TestToAirQuality(t *testing.T) {
	t.Run("legacy pm25", func(t *testing.T) {
		aq := toAirQuality(WireState{"pact": "0009", "hact": "0040"})
		require.NotNil(t, aq)
		assert.Equal(t, 9.0, aq.PM25)
		assert.Equal(t, 40.0, aq.Humidity)
		assert.Zero(t, aq.Temperature, "absent tact stays zero")
	})

	t.Run("pm25 wins over pact", func(t *testing.T) {
		aq := toAirQuality(WireState{"pm25": "0020", "pact": "0009"})
		require.NotNil(t, aq)
		assert.Equal(t, 20.0, aq.PM25)
	})

	t.Run("humidity only", func(t *testing.T) {
		aq := toAirQuality(WireState{"hact": "0051", "tact": "2931"})
		require.NotNil(t, aq)
		assert.Equal(t, 51.0, aq.Humidity)
		assert.InDelta(t, 20.0, aq.Temperature, 1e-9)
	})

	t.Run("no sensors", func(t *testing.T) {
		assert.Nil(t, toAirQuality(WireState{"tact": "2931", "pm10": "0003"}))
	})
}

func TestParseManifest(t *testing.T) {
	devices, err := parseManifest([]byte(`[{"Serial":"A","ProductType":"664"},{"Serial":"B","ProductType":"123","Name":"Den"}]`))
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "Purifier Big+Quiet", devices[0].ProductTypeName)
	assert.Equal(t, "", devices[0].Name)
	assert.Equal(t, unknownProductName, devices[1].ProductTypeName)

	devices, err = parseManifest([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{"object", `{"Serial":"A"}`, "manifest"},
		{"missing serial", `[{"ProductType":"438"}]`, "manifest[0].Serial"},
		{"blank serial", `[{"Serial":" ","ProductType":"438"}]`, "manifest[0].Serial"},
		{"missing product type", `[{"Serial":"A","ProductType":"438"},{"Serial":"B"}]`, "manifest[1].ProductType"},
		{"wrong type", `[{"Serial":5,"ProductType":"438"}]`, "manifest[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseManifest([]byte(tt.payload))
			var parseErr ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.field, parseErr.Field)
		})
	}
}

func TestProductTypeName(t *testing.T) {
	assert.Equal(t, "Pure Cool Link", ProductTypeName("475"))
	assert.Equal(t, "Unknown device", ProductTypeName("000"))
	assert.Equal(t, "Unknown device", ProductTypeName(""))
}
