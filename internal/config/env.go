package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PODIUM_"

// envKey maps PODIUM_PRACTICE_LIMIT_SECONDS to practice.limit-seconds.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(s, "_")
	if !ok {
		return section
	}
	return section + "." + strings.ReplaceAll(field, "_", "-")
}

// ApplyEnv overlays PODIUM_* environment variables on cfg. Variables that do
// not name a known setting are ignored.
func ApplyEnv(cfg FileConfig) (FileConfig, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return FileConfig{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if len(k.Keys()) == 0 {
		return cfg, nil
	}
	out := cfg
	if err := k.UnmarshalWithConf("", &out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return FileConfig{}, fmt.Errorf("failed to apply environment: %w", err)
	}
	return out, nil
}
