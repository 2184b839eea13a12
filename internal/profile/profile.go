// Package profile loads the optional YAML defaults file. Values from a
// profile sit below command-line flags and environment variables in the
// configuration precedence order.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Profile holds defaults a user keeps on disk instead of repeating flags on
// every invocation. Pointer fields distinguish "absent" from a false value.
type Profile struct {
	APIKey          string `yaml:"apiKey"`
	BaseURL         string `yaml:"baseUrl"`
	OutputDirectory string `yaml:"outputDirectory"`
	OutputFileType  string `yaml:"outputFileType"`
	StrictSSL       *bool  `yaml:"strictSsl"`
	SaveRawResponse *bool  `yaml:"saveRawResponse"`
	LogLevel        string `yaml:"logLevel"`
	LogFormat       string `yaml:"logFormat"`
	LogFile         string `yaml:"logFile"`
}

// Load reads and decodes the profile file at path. Unknown keys are
// rejected so a typo cannot silently fall back to a default.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %q: %w", path, err)
	}

	var p Profile
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile file %q: %w", path, err)
	}

	return &p, nil
}
