package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		TemplatePath:    "template.json",
		APIKey:          "12345-abcdefabcdefabcdefabcdefabcdefabcdefabcd",
		BaseURL:         DefaultBaseURL,
		RequestType:     "area",
		StrictSSL:       true,
		OutputDirectory: "output",
		OutputFileType:  "kmz",
		LogFormat:       "text",
		LogLevel:        "info",
	}
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewConfig(validConfig())
		require.NoError(t, err)
		assert.Equal(t, "area", cfg.RequestType)
	})

	t.Run("output file type 'all' passes", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.OutputFileType = "all"
		_, err := NewConfig(cfg)
		require.NoError(t, err)
	})

	testCases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "missing template",
			mutate: func(c *Config) { c.TemplatePath = "" },
			errMsg: "input template",
		},
		{
			name:   "missing API key",
			mutate: func(c *Config) { c.APIKey = "" },
			errMsg: "API key",
		},
		{
			name:   "missing base URL",
			mutate: func(c *Config) { c.BaseURL = "" },
			errMsg: "base URL",
		},
		{
			name:   "missing output directory",
			mutate: func(c *Config) { c.OutputDirectory = "" },
			errMsg: "output directory",
		},
		{
			name:   "unknown output file type",
			mutate: func(c *Config) { c.OutputFileType = "gif" },
			errMsg: "output file type",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(&cfg)

			_, err := NewConfig(cfg)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}
