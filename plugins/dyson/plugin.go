package dyson

import (
	_ "embed"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshp123/dyson-mcp/internal/tools"
)

//go:embed AGENTS.md
var agentsMD string

//go:embed dashboard.json
var dashboardJSON []byte

// Dashboard is a Grafana dashboard asset embedded in the binary.
type Dashboard struct {
	Name string
	JSON []byte
}

// Plugin bundles the client with everything the process exposes for it.
type Plugin struct {
	client *Client
}

func NewPlugin(client *Client) Plugin {
	return Plugin{client: client}
}

func (p Plugin) ID() string {
	return "dyson"
}

func (p Plugin) Client() *Client {
	return p.client
}

// AgentsMD is handed to the agent host as server instructions.
func (p Plugin) AgentsMD() string {
	return agentsMD
}

func (p Plugin) Tools() []tools.Tool {
	return Tools(p.client)
}

func (p Plugin) Dashboards() []Dashboard {
	return []Dashboard{{Name: "dyson-overview", JSON: dashboardJSON}}
}

func (p Plugin) Collectors() []prometheus.Collector {
	if p.client == nil {
		return nil
	}
	return []prometheus.Collector{NewMetricsCollector(p.client)}
}

func (p Plugin) Health() (bool, string) {
	if p.client == nil {
		return false, "dyson client not configured"
	}
	return p.client.Health()
}
