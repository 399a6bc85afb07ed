package dyson

import (
	"context"
	"fmt"

	"github.com/joshp123/dyson-mcp/internal/tools"
)

const (
	ToolGetStatus      = "dyson_get_status"
	ToolSetFanSpeed    = "dyson_set_fan_speed"
	ToolSetOscillation = "dyson_set_oscillation"
	ToolSetNightMode   = "dyson_set_night_mode"
	ToolGetAirQuality  = "dyson_get_air_quality"
)

var deviceIDParam = tools.Param{
	Name:        "device_id",
	Kind:        tools.KindString,
	Description: "Device serial number. Defaults to the first device on the account.",
}

// ActionResult is returned by the state-changing tools.
type ActionResult struct {
	Message string `json:"message"`
	Status  Status `json:"status"`
}

// AirQualityReport is the air quality tool's result.
type AirQualityReport struct {
	AirQuality
	Level                 string `json:"level"`
	TemperatureCelsius    string `json:"temperatureCelsius"`
	TemperatureFahrenheit string `json:"temperatureFahrenheit"`
}

// Tools builds the tool set backed by client.
func Tools(client *Client) []tools.Tool {
	return []tools.Tool{
		{
			Name:        ToolGetStatus,
			Description: "Get the current state of a Dyson purifier/fan: power, fan speed, oscillation, night mode, auto mode and air quality.",
			Params:      []tools.Param{deviceIDParam},
			Handler: func(ctx context.Context, args tools.Args) (any, error) {
				id, err := args.OptionalString(deviceIDParam.Name)
				if err != nil {
					return nil, err
				}
				return client.GetStatus(ctx, id)
			},
		},
		{
			Name:        ToolSetFanSpeed,
			Description: "Set the fan speed to \"auto\" or 1-10. This also turns the device on.",
			Params: []tools.Param{
				deviceIDParam,
				{Name: "speed", Kind: tools.KindString, Description: "\"auto\" or a speed from 1 to 10", Required: true},
			},
			Handler: func(ctx context.Context, args tools.Args) (any, error) {
				id, err := args.OptionalString(deviceIDParam.Name)
				if err != nil {
					return nil, err
				}
				speed, err := args.String("speed")
				if err != nil {
					return nil, err
				}
				status, err := client.SetFanSpeed(ctx, id, speed)
				if err != nil {
					return nil, err
				}
				return ActionResult{Message: fmt.Sprintf("Fan speed set to %s", status.FanSpeed), Status: status}, nil
			},
		},
		{
			Name:        ToolSetOscillation,
			Description: "Turn oscillation on or off.",
			Params: []tools.Param{
				deviceIDParam,
				{Name: "enabled", Kind: tools.KindBoolean, Description: "true to oscillate", Required: true},
			},
			Handler: switchHandler("Oscillation", client.SetOscillation),
		},
		{
			Name:        ToolSetNightMode,
			Description: "Turn night mode on or off.",
			Params: []tools.Param{
				deviceIDParam,
				{Name: "enabled", Kind: tools.KindBoolean, Description: "true to enable night mode", Required: true},
			},
			Handler: switchHandler("Night mode", client.SetNightMode),
		},
		{
			Name:        ToolGetAirQuality,
			Description: "Get air quality readings (PM2.5, PM10, VOC, NO2, humidity, temperature) with a PM2.5 rating.",
			Params:      []tools.Param{deviceIDParam},
			Handler: func(ctx context.Context, args tools.Args) (any, error) {
				id, err := args.OptionalString(deviceIDParam.Name)
				if err != nil {
					return nil, err
				}
				aq, err := client.GetAirQuality(ctx, id)
				if err != nil {
					return nil, err
				}
				return AirQualityReport{
					AirQuality:            aq,
					Level:                 ClassifyAirQuality(aq.PM25),
					TemperatureCelsius:    FormatTemperature(aq.Temperature, "C"),
					TemperatureFahrenheit: FormatTemperature(aq.Temperature, "F"),
				}, nil
			},
		},
	}
}

type switchFunc func(ctx context.Context, id string, enabled bool) (Status, error)

func switchHandler(label string, set switchFunc) tools.Handler {
	return func(ctx context.Context, args tools.Args) (any, error) {
		id, err := args.OptionalString(deviceIDParam.Name)
		if err != nil {
			return nil, err
		}
		enabled, err := args.Bool("enabled")
		if err != nil {
			return nil, err
		}
		status, err := set(ctx, id, enabled)
		if err != nil {
			return nil, err
		}
		state := "disabled"
		if enabled {
			state = "enabled"
		}
		return ActionResult{Message: fmt.Sprintf("%s %s", label, state), Status: status}, nil
	}
}
