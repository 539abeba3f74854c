package config

import (
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/xtding233/spinwheel/internal/storage"
)

// Env holds process settings read from the environment. Store settings here
// override the store section of the YAML layers.
type Env struct {
	HTTPAddr string `env:"WHEEL_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr string `env:"WHEEL_GRPC_ADDR" envDefault:":9090"`

	// ConfigDir holds default.yaml and presets/.
	ConfigDir string `env:"WHEEL_CONFIG_DIR" envDefault:"config"`
	Preset    string `env:"WHEEL_PRESET"`
	// WatchInterval is how often preset files are polled; 0 disables.
	WatchInterval time.Duration `env:"WHEEL_CONFIG_WATCH" envDefault:"2s"`

	StoreDriver string `env:"WHEEL_STORE"`
	StoreDSN    string `env:"WHEEL_STORE_DSN"`

	// SessionIdleTTL is how long an unused visitor wheel stays in memory.
	SessionIdleTTL time.Duration `env:"WHEEL_SESSION_TTL" envDefault:"30m"`

	CORSOrigins []string `env:"WHEEL_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	Debug       bool     `env:"WHEEL_DEBUG"`
}

func ParseEnv() (*Env, error) {
	cfg := Env{}
	err := env.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// StoreFor picks the storage settings: environment first, then YAML, then
// a local SQLite file.
func (e *Env) StoreFor(s Settings) StoreCfg {
	out := s.Store
	if e.StoreDriver != "" {
		out.Driver = e.StoreDriver
	}
	if e.StoreDSN != "" {
		out.DSN = e.StoreDSN
	}
	if out.Driver == "" {
		out.Driver = storage.DriverSQLite
	}
	if out.DSN == "" && out.Driver == storage.DriverSQLite {
		out.DSN = "spinwheel.db"
	}
	if out.DSN == "" && out.Driver == storage.DriverFile {
		out.DSN = "data"
	}
	return out
}
