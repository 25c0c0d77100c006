package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config holds settings for the per-tier usage export.
type Config struct {
	StarlinkURL   string
	StarlinkToken string
	CycleCount    int
	CSVPrefix     string
	Timeout       time.Duration
}

type settings struct {
	StarlinkURL string `yaml:"starlink_url"`
}

func parseConfig(args []string) (*Config, error) {
	config := &Config{}
	var settingsPath string

	fs := flag.NewFlagSet("starpull", flag.ContinueOnError)
	fs.StringVar(&settingsPath, "settings", "settings.yaml", "Path to the YAML settings file")
	fs.IntVar(&config.CycleCount, "cycles", 7, "How many billing cycles to retrieve per device")
	fs.StringVar(&config.CSVPrefix, "out", "starlink_traffic", "Filename prefix for per-month CSV output")
	fs.DurationVar(&config.Timeout, "timeout", 10*time.Minute, "Overall deadline for API pulls")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	var s settings
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", settingsPath, err)
	}
	config.StarlinkURL = s.StarlinkURL

	_ = godotenv.Load()
	config.StarlinkToken = os.Getenv("STARLINK_API_TOKEN")

	if config.StarlinkURL == "" {
		return nil, fmt.Errorf("settings: starlink_url is required")
	}
	if config.CycleCount < 1 {
		return nil, fmt.Errorf("cycles must be at least 1")
	}
	return config, nil
}
