package dyson

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAirQuality(t *testing.T) {
	tests := []struct {
		pm25 float64
		want string
	}{
		{0, AirQualityGood},
		{12, AirQualityGood},
		{12.1, AirQualityModerate},
		{35, AirQualityModerate},
		{35.5, AirQualitySensitiveUnhealthy},
		{55, AirQualitySensitiveUnhealthy},
		{56, AirQualityUnhealthy},
		{150, AirQualityUnhealthy},
		{151, AirQualityVeryUnhealthy},
		{250, AirQualityVeryUnhealthy},
		{250.1, AirQualityHazardous},
		{999, AirQualityHazardous},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyAirQuality(tt.pm25), "pm25=%v", tt.pm25)
	}
}

func TestFormatTemperature(t *testing.T) {
	assert.Equal(t, "25°C", FormatTemperature(25, "C"))
	assert.Equal(t, "19.9°C", FormatTemperature(19.9, "C"))
	assert.Equal(t, "77°F", FormatTemperature(25, "F"))
	assert.Equal(t, "68°F", FormatTemperature(19.9, "f"))
	assert.Equal(t, "-3.2°C", FormatTemperature(-3.2, ""))
}
