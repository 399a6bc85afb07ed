package dyson

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials    = errors.New("invalid dyson credentials")
	ErrNoDevicesFound        = errors.New("no dyson devices found on this account")
	ErrInvalidFanSpeed       = errors.New("invalid fan speed: must be \"auto\" or 1-10")
	ErrAirQualityUnavailable = errors.New("air quality data not available for this device")
)

// AuthenticationError is returned when the auth endpoint rejects a login for
// reasons other than bad credentials.
type AuthenticationError struct {
	Status int
}

func (e AuthenticationError) Error() string {
	return fmt.Sprintf("dyson authentication failed with status %d", e.Status)
}

type DeviceNotFoundError struct {
	ID string
}

func (e DeviceNotFoundError) Error() string {
	return fmt.Sprintf("device not found: %s", e.ID)
}

type StateUpdateError struct {
	Status int
}

func (e StateUpdateError) Error() string {
	return fmt.Sprintf("failed to set device state: status %d", e.Status)
}

// HTTPStatusError covers any other non-success response from the vendor API.
type HTTPStatusError struct {
	Op     string
	Status int
	Body   string
}

func (e HTTPStatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("dyson %s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("dyson %s: status %d: %s", e.Op, e.Status, body)
}

// ParseError reports a vendor response that does not have the expected shape.
type ParseError struct {
	Field  string
	Reason string
}

func (e ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("parse dyson response: %s", e.Reason)
	}
	return fmt.Sprintf("parse dyson response: %s: %s", e.Field, e.Reason)
}
