package main

import (
	"encoding/json"
	"fmt"
	"os"

	router "github.com/abfhdays/intelligent-query-router"
)

// loadConfig reads a JSON Config file layered over DefaultConfig's values.
// An empty path returns the defaults unchanged.
func loadConfig(path string) (*router.Config, error) {
	cfg := router.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
