package exportrecords

import (
	"time"

	"classaction-admin/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// MaxContentBytes caps the encoded workbook before it is placed in job
	// variables.
	MaxContentBytes int
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	cfg := &Config{
		Timeout:         60 * time.Second,
		MaxContentBytes: 3 << 20,
	}
	if wcfg.Timeout > 0 {
		cfg.Timeout = time.Duration(wcfg.Timeout) * time.Millisecond
	}
	return cfg
}
