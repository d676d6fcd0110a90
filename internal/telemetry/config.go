package telemetry

import (
	"strconv"
	"strings"
	"time"
)

const (
	envPrefix   = "REPO_BOOTSTRAP_TRACE_OTEL_"
	envEndpoint = envPrefix + "ENDPOINT"
	envInsecure = envPrefix + "INSECURE"
	envHeaders  = envPrefix + "HEADERS"
	envService  = envPrefix + "SERVICE"
	envTimeout  = envPrefix + "TIMEOUT"
)

// Config selects where run and fetch spans are exported. Tracing stays off
// unless Endpoint is set.
type Config struct {
	Endpoint    string
	Insecure    bool
	Headers     map[string]string
	ServiceName string
	Version     string
	Timeout     time.Duration
}

func Default() Config {
	return Config{
		ServiceName: "repo-bootstrap",
		Timeout:     5 * time.Second,
	}
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

// FromEnv overlays REPO_BOOTSTRAP_TRACE_OTEL_* values on the defaults.
// Malformed values are ignored rather than failing the run.
func FromEnv(getenv func(string) string) Config {
	cfg := Default()
	if getenv == nil {
		return cfg
	}

	cfg.Endpoint = strings.TrimSpace(getenv(envEndpoint))
	if v, err := strconv.ParseBool(strings.TrimSpace(getenv(envInsecure))); err == nil {
		cfg.Insecure = v
	}
	if v := strings.TrimSpace(getenv(envService)); v != "" {
		cfg.ServiceName = v
	}
	if d, err := time.ParseDuration(strings.TrimSpace(getenv(envTimeout))); err == nil && d > 0 {
		cfg.Timeout = d
	}
	cfg.Headers = parseHeaders(getenv(envHeaders))
	return cfg
}

// parseHeaders reads comma separated key=value pairs.
func parseHeaders(raw string) map[string]string {
	var out map[string]string
	for _, entry := range strings.Split(raw, ",") {
		key, val, _ := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[key] = strings.TrimSpace(val)
	}
	return out
}
