package dyson

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	AirQualityGood               = "Good"
	AirQualityModerate           = "Moderate"
	AirQualitySensitiveUnhealthy = "Unhealthy for Sensitive Groups"
	AirQualityUnhealthy          = "Unhealthy"
	AirQualityVeryUnhealthy      = "Very Unhealthy"
	AirQualityHazardous          = "Hazardous"
)

// ClassifyAirQuality labels a PM2.5 reading (ug/m3). Upper bounds are
// inclusive: 12 is Good, anything above 12 up to 35 is Moderate.
func ClassifyAirQuality(pm25 float64) string {
	switch {
	case pm25 <= 12:
		return AirQualityGood
	case pm25 <= 35:
		return AirQualityModerate
	case pm25 <= 55:
		return AirQualitySensitiveUnhealthy
	case pm25 <= 150:
		return AirQualityUnhealthy
	case pm25 <= 250:
		return AirQualityVeryUnhealthy
	default:
		return AirQualityHazardous
	}
}

// FormatTemperature renders a Celsius value in the requested unit ("C" or
// "F"). Celsius is printed as-is; Fahrenheit is rounded to a whole degree.
func FormatTemperature(celsius float64, unit string) string {
	if strings.EqualFold(strings.TrimSpace(unit), "F") {
		return fmt.Sprintf("%d°F", int(math.Round(celsius*9/5+32)))
	}
	return strconv.FormatFloat(celsius, 'f', -1, 64) + "°C"
}
