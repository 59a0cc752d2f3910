package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	StudyPath string // study document file or directory
	OutPath   string // trial plan destination, empty = stdout

	ValidateOnly bool
	ExecCommand  []string // per-trial command, empty = plan only
	ResultsPath  string   // JSONL results destination when executing
	Workers      int

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.StudyPath == "" {
		return nil, errors.New("StudyPath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 1 {
		return nil, errors.New("Workers must be at least 1")
	}
	if cfg.ResultsPath != "" && len(cfg.ExecCommand) == 0 {
		return nil, errors.New("ResultsPath requires an ExecCommand to produce results")
	}
	return &cfg, nil
}
