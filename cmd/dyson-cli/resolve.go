package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/joshp123/dyson-mcp/plugins/dyson"
)

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(" ", "_", "-", "_")
	name = replacer.Replace(name)
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	return name
}

func resolveNamedID(kind, input string, options map[string]string) (string, error) {
	needle := normalizeName(input)
	for label, id := range options {
		if normalizeName(label) == needle {
			return id, nil
		}
	}
	available := make([]string, 0, len(options))
	for label := range options {
		available = append(available, label)
	}
	sort.Strings(available)
	return "", fmt.Errorf("%s %q not found. Available: %s", kind, input, strings.Join(available, ", "))
}

// deviceArg resolves args[index] (a serial or device name) to a serial.
// A missing argument selects the first device.
func deviceArg(ctx context.Context, client *dyson.Client, args []string, index int) string {
	if len(args) <= index || strings.TrimSpace(args[index]) == "" {
		return ""
	}
	devices, err := client.Devices(ctx)
	if err != nil {
		fatal("devices", err)
	}
	id, err := resolveNamedID("device", args[index], deviceOptions(devices))
	if err != nil {
		fatal("device", err)
	}
	return id
}

func deviceOptions(devices []dyson.Device) map[string]string {
	options := make(map[string]string, len(devices)*2)
	for _, device := range devices {
		options[device.Serial] = device.Serial
		if device.Name != "" {
			options[device.Name] = device.Serial
		}
	}
	return options
}
