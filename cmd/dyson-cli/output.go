package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joshp123/dyson-mcp/plugins/dyson"
)

type outputMode struct {
	json bool
}

func (o outputMode) printJSON(value any) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fatal("format json", err)
	}
	fmt.Println(string(data))
}

func (o outputMode) table(rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func (o outputMode) status(status dyson.Status) {
	if o.json {
		o.printJSON(status)
		return
	}
	rows := [][]string{
		{"FIELD", "VALUE"},
		{"power", onOff(status.Power)},
		{"fan_speed", status.FanSpeed},
		{"auto_mode", onOff(status.AutoMode)},
		{"oscillation", onOff(status.Oscillation)},
		{"night_mode", onOff(status.NightMode)},
	}
	if status.AirQuality != nil {
		rows = append(rows, airQualityRows(*status.AirQuality)...)
	}
	o.table(rows)
}

func airQualityRows(aq dyson.AirQuality) [][]string {
	return [][]string{
		{"pm25", fmt.Sprintf("%.0f ug/m3 (%s)", aq.PM25, dyson.ClassifyAirQuality(aq.PM25))},
		{"pm10", fmt.Sprintf("%.0f ug/m3", aq.PM10)},
		{"voc", fmt.Sprintf("%.0f", aq.VOC)},
		{"no2", fmt.Sprintf("%.0f", aq.NO2)},
		{"humidity", fmt.Sprintf("%.0f %%", aq.Humidity)},
		{"temperature", dyson.FormatTemperature(aq.Temperature, "C") + " / " + dyson.FormatTemperature(aq.Temperature, "F")},
	}
}

func onOff(value bool) string {
	if value {
		return "on"
	}
	return "off"
}
