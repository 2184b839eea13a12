package app

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultBaseURL is the production CloudRF API endpoint.
const DefaultBaseURL = "https://api.cloudrf.com/"

// allowedOutputFileTypes lists the artifact types the area endpoint can
// produce. "all" selects every one of them.
var allowedOutputFileTypes = []string{"kmz", "kml", "shp", "tiff", "png", "html"}

// Config holds all the necessary configuration for an App instance to run.
// It is built once at startup and never mutated afterwards.
type Config struct {
	TemplatePath string // JSON request template, required
	CSVPath      string // optional batch input

	APIKey      string
	BaseURL     string
	RequestType string

	StrictSSL       bool
	SaveRawResponse bool
	OutputDirectory string
	OutputFileType  string

	LogFormat string
	LogLevel  string
	LogFile   string
}

// NewConfig validates a Config and returns an immutable copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TemplatePath == "" {
		return nil, errors.New("an input template is required (--input-template)")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("an API key is required (--api-key or CLOUDRF_API_KEY)")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("a base URL is required (--base-url)")
	}
	if cfg.OutputDirectory == "" {
		return nil, errors.New("an output directory is required (--output-directory)")
	}
	if cfg.OutputFileType != "all" && !slices.Contains(allowedOutputFileTypes, cfg.OutputFileType) {
		return nil, fmt.Errorf("invalid output file type %q: must be \"all\" or one of %v", cfg.OutputFileType, allowedOutputFileTypes)
	}

	return &cfg, nil
}
