package models

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultCollatedFileName is used when the configuration does not name
// the collated report file.
const DefaultCollatedFileName = "workflow_files.json"

// ReporterConfig controls the file-report engine for one run. The zero
// value keeps the reporter inert.
type ReporterConfig struct {
	Enabled          bool   `yaml:"enabled" json:"enabled"`
	Collate          bool   `yaml:"collate" json:"collate"`
	WriteToWorkDir   bool   `yaml:"writeToWorkDir" json:"writeToWorkDir"`
	CollatedFileName string `yaml:"collatedFileName" json:"collatedFileName"`
}

// DefaultReporterConfig returns the documented defaults: reporting off,
// collation off, no work-dir copies.
func DefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		CollatedFileName: DefaultCollatedFileName,
	}
}

// LoadReporterConfig reads a YAML configuration file, applying defaults
// for absent fields.
func LoadReporterConfig(path string) (ReporterConfig, error) {
	cfg := DefaultReporterConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if cfg.CollatedFileName == "" {
		cfg.CollatedFileName = DefaultCollatedFileName
	}
	return cfg, nil
}
