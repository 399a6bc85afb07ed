package dyson

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type manifestEntry struct {
	Serial           *string `json:"Serial"`
	Name             *string `json:"Name"`
	ProductType      *string `json:"ProductType"`
	ConnectionType   *string `json:"ConnectionType"`
	LocalCredentials *string `json:"LocalCredentials"`
}

func parseManifest(payload []byte) ([]Device, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, ParseError{Field: "manifest", Reason: "expected a JSON array"}
	}

	devices := make([]Device, 0, len(entries))
	for i, raw := range entries {
		field := fmt.Sprintf("manifest[%d]", i)

		var entry manifestEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, ParseError{Field: field, Reason: err.Error()}
		}
		if entry.Serial == nil || strings.TrimSpace(*entry.Serial) == "" {
			return nil, ParseError{Field: field + ".Serial", Reason: "missing"}
		}
		if entry.ProductType == nil || strings.TrimSpace(*entry.ProductType) == "" {
			return nil, ParseError{Field: field + ".ProductType", Reason: "missing"}
		}

		devices = append(devices, Device{
			Serial:           *entry.Serial,
			Name:             deref(entry.Name),
			ProductType:      *entry.ProductType,
			ProductTypeName:  ProductTypeName(*entry.ProductType),
			ConnectionType:   deref(entry.ConnectionType),
			LocalCredentials: deref(entry.LocalCredentials),
		})
	}
	return devices, nil
}

var sensorFields = []string{
	fieldHumidity,
	fieldTemperature,
	fieldPM25Legacy,
	fieldPM25,
	fieldPM10,
	fieldVOC,
	fieldNO2,
}

func parseWireState(payload []byte) (WireState, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil || raw == nil {
		return nil, ParseError{Field: "state", Reason: "expected a JSON object"}
	}

	state := make(WireState, len(raw))
	for key, value := range raw {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, ParseError{Field: key, Reason: "expected a string value"}
		}
		state[key] = s
	}

	for _, key := range []string{fieldPower, fieldFanSpeed} {
		if _, ok := state[key]; !ok {
			return nil, ParseError{Field: key, Reason: "missing"}
		}
	}
	if speed := state[fieldFanSpeed]; speed != wireFanAuto {
		if _, err := strconv.Atoi(speed); err != nil {
			return nil, ParseError{Field: fieldFanSpeed, Reason: fmt.Sprintf("unexpected value %q", speed)}
		}
	}
	for _, key := range sensorFields {
		value, ok := state[key]
		if !ok {
			continue
		}
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return nil, ParseError{Field: key, Reason: fmt.Sprintf("unexpected value %q", value)}
		}
	}
	return state, nil
}

// toStatus projects a parsed wire state. parseWireState has already
// validated every field read here.
func toStatus(state WireState) Status {
	return Status{
		Power:       state[fieldPower] == wireOn,
		FanSpeed:    decodeFanSpeed(state[fieldFanSpeed]),
		Oscillation: state[fieldOscillation] == wireOn,
		NightMode:   state[fieldNightMode] == wireOn,
		AutoMode:    state[fieldAutoMode] == wireOn,
		AirQuality:  toAirQuality(state),
	}
}

func toAirQuality(state WireState) *AirQuality {
	if !state.has(fieldPM25) && !state.has(fieldPM25Legacy) && !state.has(fieldHumidity) {
		return nil
	}

	aq := &AirQuality{
		PM10:     state.number(fieldPM10),
		VOC:      state.number(fieldVOC),
		NO2:      state.number(fieldNO2),
		Humidity: state.number(fieldHumidity),
	}
	switch {
	case state.has(fieldPM25):
		aq.PM25 = state.number(fieldPM25)
	case state.has(fieldPM25Legacy):
		aq.PM25 = state.number(fieldPM25Legacy)
	}
	if state.has(fieldTemperature) {
		aq.Temperature = kelvinTenthsToCelsius(state.number(fieldTemperature))
	}
	return aq
}

func (s WireState) has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s WireState) number(key string) float64 {
	value, err := strconv.ParseFloat(s[key], 64)
	if err != nil {
		return 0
	}
	return value
}

func decodeFanSpeed(code string) string {
	if code == wireFanAuto {
		return FanSpeedAuto
	}
	speed, err := strconv.Atoi(code)
	if err != nil {
		return code
	}
	return strconv.Itoa(speed)
}

// encodeFanSpeed builds the wire update for a fan speed. Any speed also
// switches the device on.
func encodeFanSpeed(input string) (WireState, error) {
	value := strings.TrimSpace(input)
	if strings.EqualFold(value, FanSpeedAuto) {
		return WireState{
			fieldFanSpeed: wireFanAuto,
			fieldAutoMode: wireOn,
			fieldPower:    wireOn,
		}, nil
	}

	speed, err := strconv.Atoi(value)
	if err != nil || speed < 1 || speed > 10 {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidFanSpeed, input)
	}
	return WireState{
		fieldFanSpeed: fmt.Sprintf("%04d", speed),
		fieldAutoMode: wireOff,
		fieldPower:    wireOn,
	}, nil
}

func encodeSwitch(enabled bool) string {
	if enabled {
		return wireOn
	}
	return wireOff
}

// kelvinTenthsToCelsius converts a tact reading (Kelvin x10) to Celsius with
// one decimal. The subtraction is done in whole hundredths so that half-tenth
// results round to even instead of drifting on float error.
func kelvinTenthsToCelsius(tenths float64) float64 {
	hundredths := math.Round(tenths*10) - 27315
	return math.RoundToEven(hundredths/10) / 10
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
