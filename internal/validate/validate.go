// Package validate performs the startup checks that must pass before any
// network call is made: API key shape, input file readability, and output
// directory writability. Every failure here is fatal to the whole run.
package validate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/cloud-rf/cloudrf-cli/internal/ctxlog"
)

const accountHint = "Please make sure that you are using the correct key from https://cloudrf.com/my-account"

// tokenLength is the exact length of the token component of an API key.
const tokenLength = 40

var (
	// ErrInvalidAPIKeyFormat indicates an API key that is not of the form
	// "<numeric-uid>-<40-char-token>".
	ErrInvalidAPIKeyFormat = errors.New("invalid API key format")

	// ErrFileNotFound indicates a required input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a file or directory that exists but
	// cannot be read or written.
	ErrPermissionDenied = errors.New("permission denied")
)

// APIKey checks the structural shape of the key without mutating or storing
// it. The key must split on "-" into a numeric UID and a 40-character token.
func APIKey(key string) error {
	parts := strings.Split(key, "-")
	if len(parts) != 2 {
		return fmt.Errorf("%w: your API key appears to be in the incorrect format. %s", ErrInvalidAPIKeyFormat, accountHint)
	}
	if parts[0] == "" || strings.ContainsFunc(parts[0], func(r rune) bool { return !unicode.IsDigit(r) }) {
		return fmt.Errorf("%w: the UID component (before \"-\") appears to be incorrect. %s", ErrInvalidAPIKeyFormat, accountHint)
	}
	if len(parts[1]) != tokenLength {
		return fmt.Errorf("%w: the token component (after \"-\") appears to be incorrect. %s", ErrInvalidAPIKeyFormat, accountHint)
	}
	return nil
}

// InputFile checks that the file at path exists and is readable, and logs
// its permission bits at debug level.
func InputFile(ctx context.Context, path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: input file %q could not be found, please check your path", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to stat input file %q: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: unable to read input file %q", ErrPermissionDenied, path)
		}
		return fmt.Errorf("failed to open input file %q: %w", path, err)
	}
	f.Close()

	ctxlog.FromContext(ctx).Debug("Input file found.", "path", path, "mode", fmt.Sprintf("%#o", info.Mode().Perm()))
	return nil
}

// OutputDir ensures the output directory exists, creating it recursively if
// needed, and probe-writes a throwaway file to confirm it is writable. The
// probe name carries a uuid so a real artifact can never be clobbered.
func OutputDir(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Debug("Output directory does not exist, attempting to create.", "path", path)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("%w: unable to create output directory %q", ErrPermissionDenied, path)
		}
		logger.Debug("Output directory created.", "path", path)
	}

	probe := filepath.Join(path, ".probe-"+uuid.NewString())
	if err := os.WriteFile(probe, nil, 0o600); err != nil {
		return fmt.Errorf("%w: unable to create files in output directory %q", ErrPermissionDenied, path)
	}
	if err := os.Remove(probe); err != nil {
		return fmt.Errorf("failed to remove probe file %q: %w", probe, err)
	}

	return nil
}
