package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloud-rf/cloudrf-cli/internal/ctxlog"
)

// rawResponseFile is the artifact name for a saved raw API response.
const rawResponseFile = "response.json"

// SaveRawResponse writes the raw response body of a successful request under
// {outputDir}/{requestName}/ and returns the written path.
func SaveRawResponse(ctx context.Context, outputDir string, outcome *Outcome) (string, error) {
	dir := filepath.Join(outputDir, outcome.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, rawResponseFile)
	if err := os.WriteFile(path, []byte(outcome.Body), 0o644); err != nil {
		return "", fmt.Errorf("failed to save raw response to %q: %w", path, err)
	}

	ctxlog.FromContext(ctx).Debug("Raw response saved.", "path", path)
	return path, nil
}
