package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Settings is the YAML-backed portion of configuration: API endpoints and
// run-level knobs that rarely change between invocations.
type Settings struct {
	StarlinkURL  string `yaml:"starlink_url"`
	VenusURL     string `yaml:"venus_url"`
	AresURL      string `yaml:"ares_url"`
	FlowTimezone string `yaml:"flow_timezone"`
}

// Config merges flags, the settings file, and environment credentials.
type Config struct {
	Settings

	ReportPath   string
	CSVPath      string
	SnapshotPath string
	FromFile     bool
	Timeout      time.Duration

	StarlinkToken string
	VenusToken    string
	AresToken     string

	// FlowLocation is the flow-accounting source's native timezone,
	// resolved from Settings.FlowTimezone.
	FlowLocation *time.Location
}

const defaultFlowTimezone = "America/Los_Angeles"

func parseConfig(args []string) (*Config, error) {
	config := &Config{}
	var settingsPath string

	fs := flag.NewFlagSet("bridgetroll", flag.ContinueOnError)
	fs.StringVar(&settingsPath, "settings", "settings.yaml", "Path to the YAML settings file")
	fs.StringVar(&config.ReportPath, "report", "report.txt", "Path for the text discrepancy report")
	fs.StringVar(&config.CSVPath, "csv", "data.csv", "Path for the CSV data export")
	fs.StringVar(&config.SnapshotPath, "snapshot", "output.json", "Path for the pulled-data snapshot")
	fs.BoolVar(&config.FromFile, "from-file", false, "Reconcile from an existing snapshot instead of pulling the APIs")
	fs.DurationVar(&config.Timeout, "timeout", 10*time.Minute, "Overall deadline for API pulls")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, &config.Settings); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", settingsPath, err)
	}

	if config.FlowTimezone == "" {
		config.FlowTimezone = defaultFlowTimezone
	}
	config.FlowLocation, err = time.LoadLocation(config.FlowTimezone)
	if err != nil {
		return nil, fmt.Errorf("flow timezone %q: %w", config.FlowTimezone, err)
	}

	// A .env file is optional; real environments set credentials directly.
	_ = godotenv.Load()
	config.StarlinkToken = os.Getenv("STARLINK_API_TOKEN")
	config.VenusToken = os.Getenv("VENUS_API_TOKEN")
	config.AresToken = os.Getenv("ARES_API_TOKEN")

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.FromFile {
		// Snapshot replay needs no API endpoints.
		return nil
	}
	if c.StarlinkURL == "" {
		return fmt.Errorf("settings: starlink_url is required")
	}
	if c.VenusURL == "" {
		return fmt.Errorf("settings: venus_url is required")
	}
	if c.AresURL == "" {
		return fmt.Errorf("settings: ares_url is required")
	}
	return nil
}
