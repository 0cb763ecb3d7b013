package prefabs

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings are process-level overrides read from the environment.
type Settings struct {
	SpecPath  string `env:"EVO_SPEC"`
	LogLevel  string `env:"EVO_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"EVO_LOG_FORMAT" envDefault:"text"`
	Seed      uint64 `env:"EVO_SEED" envDefault:"1"`
	TraceDir  string `env:"EVO_TRACE_DIR"`
}

// ParseEnv loads Settings from environment variables.
func ParseEnv() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("prefabs: parse env: %w", err)
	}
	return s, nil
}
