package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cloud-rf/cloudrf-cli/internal/app"
	"github.com/cloud-rf/cloudrf-cli/internal/profile"
)

// apiKeyEnv is consulted when no --api-key flag is given.
const apiKeyEnv = "CLOUDRF_API_KEY"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Precedence for every setting is: flag, then environment, then the profile
// file named by --config, then the built-in default.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("cloudrf", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
cloudrf - Submit radio propagation calculations to the CloudRF API.

Usage:
  cloudrf [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	templateFlag := flagSet.String("input-template", "", "Path to the input JSON template used as part of the calculation.")
	tFlag := flagSet.String("t", "", "Path to the input JSON template (shorthand).")
	csvFlag := flagSet.String("input-csv", "", "Path to an input CSV, used in combination with --input-template to customise your template. The CSV header row must use dot notation for the template keys to override, for example \"transmitter.lat\".")
	iFlag := flagSet.String("i", "", "Path to an input CSV (shorthand).")
	apiKeyFlag := flagSet.String("api-key", "", "Your API key to the CloudRF API service. Defaults to the "+apiKeyEnv+" environment variable.")
	kFlag := flagSet.String("k", "", "Your API key (shorthand).")
	baseURLFlag := flagSet.String("base-url", app.DefaultBaseURL, "The base URL for the CloudRF API service.")
	uFlag := flagSet.String("u", "", "The base URL (shorthand).")
	noStrictSSLFlag := flagSet.Bool("no-strict-ssl", false, "Do not verify the SSL certificate to the CloudRF API service.")
	saveRawFlag := flagSet.Bool("save-raw-response", false, "Save the raw response from the CloudRF API service to the output directory.")
	rFlag := flagSet.Bool("r", false, "Save the raw response (shorthand).")
	outputDirFlag := flagSet.String("output-directory", "output", "Directory path where outputs are saved.")
	oFlag := flagSet.String("o", "", "Output directory (shorthand).")
	outputTypeFlag := flagSet.String("output-file-type", "kmz", "Type of output file to be requested. Options: kmz, kml, shp, tiff, png, html or 'all'.")
	sFlag := flagSet.String("s", "", "Type of output file (shorthand).")
	requestTypeFlag := flagSet.String("request-type", "area", "The calculation endpoint to call. Options: 'area'.")
	configFlag := flagSet.String("config", "", "Path to an optional YAML profile with default settings.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFileFlag := flagSet.String("log-file", "", "Write logs to this file (size-rotated) instead of the console.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	// Track which flags the user actually set; only those outrank the profile.
	setFlags := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	var prof *profile.Profile
	if *configFlag != "" {
		var err error
		prof, err = profile.Load(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		slog.Debug("Profile loaded.", "path", *configFlag)
	} else {
		prof = &profile.Profile{}
	}

	firstOf := func(values ...string) string {
		for _, v := range values {
			if v != "" {
				return v
			}
		}
		return ""
	}

	apiKey := firstOf(*apiKeyFlag, *kFlag, os.Getenv(apiKeyEnv), prof.APIKey)

	baseURL := firstOf(*uFlag, prof.BaseURL, *baseURLFlag)
	if setFlags["base-url"] {
		baseURL = *baseURLFlag
	}

	outputDir := firstOf(*oFlag, prof.OutputDirectory, *outputDirFlag)
	if setFlags["output-directory"] {
		outputDir = *outputDirFlag
	}

	outputType := firstOf(*sFlag, prof.OutputFileType, *outputTypeFlag)
	if setFlags["output-file-type"] {
		outputType = *outputTypeFlag
	}

	strictSSL := !*noStrictSSLFlag
	if !setFlags["no-strict-ssl"] && prof.StrictSSL != nil {
		strictSSL = *prof.StrictSSL
	}

	saveRaw := *saveRawFlag || *rFlag
	if !setFlags["save-raw-response"] && !setFlags["r"] && prof.SaveRawResponse != nil {
		saveRaw = *prof.SaveRawResponse
	}

	logFormat := strings.ToLower(firstOf(prof.LogFormat, *logFormatFlag))
	if setFlags["log-format"] {
		logFormat = strings.ToLower(*logFormatFlag)
	}
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(firstOf(prof.LogLevel, *logLevelFlag))
	if setFlags["log-level"] {
		logLevel = strings.ToLower(*logLevelFlag)
	}
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	logFile := firstOf(*logFileFlag, prof.LogFile)
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		TemplatePath:    firstOf(*templateFlag, *tFlag),
		CSVPath:         firstOf(*csvFlag, *iFlag),
		APIKey:          apiKey,
		BaseURL:         baseURL,
		RequestType:     *requestTypeFlag,
		StrictSSL:       strictSSL,
		SaveRawResponse: saveRaw,
		OutputDirectory: outputDir,
		OutputFileType:  outputType,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		LogFile:         logFile,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
