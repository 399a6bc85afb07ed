package dyson

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const scrapeTimeout = 10 * time.Second

// MetricsCollector reads every known device's state on scrape.
type MetricsCollector struct {
	client *Client

	scrapeSuccess prometheus.Gauge
	lastSuccess   prometheus.Gauge
	info          *prometheus.GaugeVec

	power       *prometheus.GaugeVec
	fanSpeed    *prometheus.GaugeVec
	fanAuto     *prometheus.GaugeVec
	oscillation *prometheus.GaugeVec
	nightMode   *prometheus.GaugeVec
	pm25        *prometheus.GaugeVec
	pm10        *prometheus.GaugeVec
	voc         *prometheus.GaugeVec
	no2         *prometheus.GaugeVec
	humidity    *prometheus.GaugeVec
	temperature *prometheus.GaugeVec
}

func NewMetricsCollector(client *Client) *MetricsCollector {
	labels := []string{"serial"}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "dyson_" + name, Help: help}, labels)
	}
	return &MetricsCollector{
		client: client,
		scrapeSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dyson_scrape_success",
			Help: "Last scrape success (1=ok, 0=error)",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dyson_last_success_timestamp_seconds",
			Help: "Last successful scrape timestamp (epoch seconds)",
		}),
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dyson_device_info",
			Help: "Dyson device info",
		}, []string{"serial", "name", "product_type", "product_name"}),
		power:       gauge("power_on", "1 if the device is powered on"),
		fanSpeed:    gauge("fan_speed", "Fan speed 1-10 (0 when auto)"),
		fanAuto:     gauge("auto_mode", "1 if auto mode is on"),
		oscillation: gauge("oscillation_on", "1 if oscillation is on"),
		nightMode:   gauge("night_mode_on", "1 if night mode is on"),
		pm25:        gauge("pm25_ugm3", "PM2.5 concentration (ug/m3)"),
		pm10:        gauge("pm10_ugm3", "PM10 concentration (ug/m3)"),
		voc:         gauge("voc_index", "VOC index"),
		no2:         gauge("no2_index", "NO2 index"),
		humidity:    gauge("humidity_percent", "Relative humidity (%)"),
		temperature: gauge("temperature_celsius", "Temperature (celsius)"),
	}
}

func (c *MetricsCollector) vectors() []*prometheus.GaugeVec {
	return []*prometheus.GaugeVec{
		c.info,
		c.power,
		c.fanSpeed,
		c.fanAuto,
		c.oscillation,
		c.nightMode,
		c.pm25,
		c.pm10,
		c.voc,
		c.no2,
		c.humidity,
		c.temperature,
	}
}

func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	c.scrapeSuccess.Describe(ch)
	c.lastSuccess.Describe(ch)
	for _, vec := range c.vectors() {
		vec.Describe(ch)
	}
}

func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	if err := c.scrape(ctx); err != nil {
		c.scrapeSuccess.Set(0)
	} else {
		c.scrapeSuccess.Set(1)
		c.lastSuccess.Set(float64(time.Now().Unix()))
	}

	c.scrapeSuccess.Collect(ch)
	c.lastSuccess.Collect(ch)
	for _, vec := range c.vectors() {
		vec.Collect(ch)
	}
}

func (c *MetricsCollector) scrape(ctx context.Context) error {
	for _, vec := range c.vectors() {
		vec.Reset()
	}
	if c.client == nil {
		return ErrNoDevicesFound
	}

	devices, err := c.client.Devices(ctx)
	if err != nil {
		return err
	}

	var firstErr error
	for _, device := range devices {
		c.info.WithLabelValues(device.Serial, device.Name, device.ProductType, device.ProductTypeName).Set(1)

		status, err := c.client.GetStatus(ctx, device.Serial)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		c.record(device.Serial, status)
	}
	return firstErr
}

func (c *MetricsCollector) record(serial string, status Status) {
	c.power.WithLabelValues(serial).Set(boolGauge(status.Power))
	c.fanAuto.WithLabelValues(serial).Set(boolGauge(status.AutoMode))
	c.oscillation.WithLabelValues(serial).Set(boolGauge(status.Oscillation))
	c.nightMode.WithLabelValues(serial).Set(boolGauge(status.NightMode))

	speed := 0.0
	if n, err := strconv.Atoi(status.FanSpeed); err == nil {
		speed = float64(n)
	}
	c.fanSpeed.WithLabelValues(serial).Set(speed)

	aq := status.AirQuality
	if aq == nil {
		return
	}
	c.pm25.WithLabelValues(serial).Set(aq.PM25)
	c.pm10.WithLabelValues(serial).Set(aq.PM10)
	c.voc.WithLabelValues(serial).Set(aq.VOC)
	c.no2.WithLabelValues(serial).Set(aq.NO2)
	c.humidity.WithLabelValues(serial).Set(aq.Humidity)
	c.temperature.WithLabelValues(serial).Set(aq.Temperature)
}

func boolGauge(value bool) float64 {
	if value {
		return 1
	}
	return 0
}
