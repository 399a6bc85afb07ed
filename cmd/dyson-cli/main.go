package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joshp123/dyson-mcp/internal/config"
	"github.com/joshp123/dyson-mcp/internal/tools"
	"github.com/joshp123/dyson-mcp/plugins/dyson"
)

const commandTimeout = 30 * time.Second

type cliFlags struct {
	json    bool
	addr    string
	envFile string
}

func main() {
	var flags cliFlags
	fs := flag.NewFlagSet("dyson-cli", flag.ExitOnError)
	fs.BoolVar(&flags.json, "json", false, "print JSON instead of tables")
	fs.StringVar(&flags.addr, "addr", "", "sidecar gRPC address (default $DYSON_GRPC_ADDR or localhost:9000)")
	fs.StringVar(&flags.envFile, "env-file", "", "optional .env file")
	fs.Usage = usage
	_ = fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch args[0] {
	case "services", "methods", "health":
		remoteCmd(ctx, resolveAddr(flags.addr), args)
		return
	}

	client, registry := localClient(flags)
	out := outputMode{json: flags.json}
	switch args[0] {
	case "devices", "list":
		devicesCmd(ctx, client, out)
	case "status":
		statusCmd(ctx, client, out, args[1:])
	case "fan":
		fanCmd(ctx, client, out, args[1:])
	case "oscillation", "osc":
		switchCmd(ctx, client, out, "oscillation", client.SetOscillation, args[1:])
	case "night":
		switchCmd(ctx, client, out, "night", client.SetNightMode, args[1:])
	case "air":
		airCmd(ctx, client, out, args[1:])
	case "tools":
		toolsCmd(registry, out)
	case "call":
		callCmd(ctx, registry, args[1:])
	default:
		usage()
		os.Exit(2)
	}
}

func localClient(flags cliFlags) (*dyson.Client, *tools.Registry) {
	var envFiles []string
	if flags.envFile != "" {
		envFiles = append(envFiles, flags.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		fatal("config", err)
	}

	logger := config.NewLogger(cfg, os.Stderr)
	if cfg.LogLevel == config.DefaultLogLevel {
		logger.SetLevel(logrus.WarnLevel)
	}

	client, err := dyson.NewClient(cfg.Dyson(), logger)
	if err != nil {
		fatal("client", err)
	}
	registry, err := tools.NewRegistry(logger, dyson.Tools(client))
	if err != nil {
		fatal("tools", err)
	}
	return client, registry
}

func devicesCmd(ctx context.Context, client *dyson.Client, out outputMode) {
	devices, err := client.ListDevices(ctx)
	if err != nil {
		fatal("devices", err)
	}
	if out.json {
		out.printJSON(devices)
		return
	}
	rows := [][]string{{"SERIAL", "NAME", "PRODUCT", "CONNECTION"}}
	for _, device := range devices {
		rows = append(rows, []string{device.Serial, device.Name, device.ProductTypeName, device.ConnectionType})
	}
	out.table(rows)
}

func statusCmd(ctx context.Context, client *dyson.Client, out outputMode, args []string) {
	id := deviceArg(ctx, client, args, 0)
	status, err := client.GetStatus(ctx, id)
	if err != nil {
		fatal("status", err)
	}
	out.status(status)
}

func fanCmd(ctx context.Context, client *dyson.Client, out outputMode, args []string) {
	if len(args) < 1 {
		fatal("fan", fmt.Errorf("usage: dyson-cli fan <auto|1-10> [device]"))
	}
	id := deviceArg(ctx, client, args, 1)
	status, err := client.SetFanSpeed(ctx, id, args[0])
	if err != nil {
		fatal("fan", err)
	}
	out.status(status)
}

type switchFunc func(ctx context.Context, id string, enabled bool) (dyson.Status, error)

func switchCmd(ctx context.Context, client *dyson.Client, out outputMode, name string, set switchFunc, args []string) {
	if len(args) < 1 {
		fatal(name, fmt.Errorf("usage: dyson-cli %s <on|off> [device]", name))
	}
	enabled, err := parseOnOff(args[0])
	if err != nil {
		fatal(name, err)
	}
	id := deviceArg(ctx, client, args, 1)
	status, err := set(ctx, id, enabled)
	if err != nil {
		fatal(name, err)
	}
	out.status(status)
}

func airCmd(ctx context.Context, client *dyson.Client, out outputMode, args []string) {
	id := deviceArg(ctx, client, args, 0)
	aq, err := client.GetAirQuality(ctx, id)
	if err != nil {
		fatal("air", err)
	}
	if out.json {
		out.printJSON(aq)
		return
	}
	rows := [][]string{{"METRIC", "VALUE"}}
	rows = append(rows, airQualityRows(aq)...)
	out.table(rows)
}

func toolsCmd(registry *tools.Registry, out outputMode) {
	list := registry.Tools()
	if out.json {
		out.printJSON(list)
		return
	}
	rows := [][]string{{"TOOL", "PARAMS", "DESCRIPTION"}}
	for _, tool := range list {
		params := make([]string, 0, len(tool.Params))
		for _, param := range tool.Params {
			label := param.Name + ":" + string(param.Kind)
			if !param.Required {
				label += "?"
			}
			params = append(params, label)
		}
		rows = append(rows, []string{tool.Name, strings.Join(params, ","), tool.Description})
	}
	out.table(rows)
}

func callCmd(ctx context.Context, registry *tools.Registry, args []string) {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		fatal("call", fmt.Errorf("usage: dyson-cli call <tool> [--data JSON]"))
	}
	name := args[0]

	flags := flag.NewFlagSet("call", flag.ExitOnError)
	data := flags.String("data", "{}", "JSON tool arguments")
	_ = flags.Parse(args[1:])

	var toolArgs map[string]any
	if err := json.Unmarshal([]byte(*data), &toolArgs); err != nil {
		fatal("call", fmt.Errorf("parse --data: %w", err))
	}

	result := registry.Call(ctx, name, toolArgs)
	if result.IsError {
		fmt.Fprintln(os.Stderr, result.Text)
		os.Exit(1)
	}
	fmt.Println(result.Text)
}

func parseOnOff(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", value)
	}
}

func usage() {
	fmt.Println("dyson-cli [--json] [--addr host:port] <command> [args]")
	fmt.Println("")
	fmt.Println("Device commands (talk to the Dyson cloud with DYSON_* credentials):")
	fmt.Println("  devices")
	fmt.Println("  status [device]")
	fmt.Println("  fan <auto|1-10> [device]")
	fmt.Println("  oscillation <on|off> [device]")
	fmt.Println("  night <on|off> [device]")
	fmt.Println("  air [device]")
	fmt.Println("  tools")
	fmt.Println("  call <tool> --data '{}'")
	fmt.Println("")
	fmt.Println("Sidecar commands (talk to a running dyson-mcp gRPC sidecar):")
	fmt.Println("  services")
	fmt.Println("  methods <service>")
	fmt.Println("  health [service]")
	fmt.Println("")
	fmt.Println("[device] is a serial or a device name; it defaults to the first device.")
}

func fatal(action string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", action, err)
	os.Exit(1)
}
