package dyson

import (
	"fmt"
	"strings"
	"time"
)

const DefaultRegion = "US"

var regionHosts = map[string]string{
	"US": "appapi.cp.dyson.com",
	"CA": "appapi.cp.dyson.com",
	"GB": "appapi.cp.dyson.com",
	"AU": "appapi.cp.dyson.com",
	"NZ": "appapi.cp.dyson.com",
	"CN": "appapi.cp.dyson.cn",
}

// Config defines runtime configuration for the Dyson cloud client.
type Config struct {
	Email    string
	Password string
	Region   string
	// BaseURL overrides the region host, e.g. for a proxy or a test server.
	BaseURL string
	// Timeout is applied to the HTTP client when non-zero.
	Timeout time.Duration
}

// HostForRegion returns the API host for a region code. Unknown codes use
// the default region.
func HostForRegion(region string) string {
	if host, ok := regionHosts[strings.ToUpper(strings.TrimSpace(region))]; ok {
		return host
	}
	return regionHosts[DefaultRegion]
}

func (c Config) baseURL() string {
	if base := strings.TrimSpace(c.BaseURL); base != "" {
		return strings.TrimRight(base, "/")
	}
	return "https://" + HostForRegion(c.Region)
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("dyson email is required")
	}
	if c.Password == "" {
		return fmt.Errorf("dyson password is required")
	}
	return nil
}
