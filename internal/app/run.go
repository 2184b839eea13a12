package app

import (
	"context"
	"fmt"

	"github.com/cloud-rf/cloudrf-cli/internal/api"
	"github.com/cloud-rf/cloudrf-cli/internal/csvinput"
	"github.com/cloud-rf/cloudrf-cli/internal/ctxlog"
	"github.com/cloud-rf/cloudrf-cli/internal/template"
	"github.com/cloud-rf/cloudrf-cli/internal/validate"
)

// Run executes the main application logic: validate everything up front,
// then send one blocking request per CSV row (or a single request from the
// unmodified template). The first failure of any kind aborts the run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if !a.cfg.StrictSSL {
		// Deliberate, explicit choice; certificate validation warnings are
		// suppressed for the whole run.
		a.logger.Warn("Strict SSL disabled. Certificates on outbound requests will not be verified.")
	}

	if err := validate.APIKey(a.cfg.APIKey); err != nil {
		return err
	}
	if err := validate.InputFile(ctx, a.cfg.TemplatePath); err != nil {
		return err
	}
	if a.cfg.CSVPath != "" {
		if err := validate.InputFile(ctx, a.cfg.CSVPath); err != nil {
			return err
		}
	} else {
		a.logger.Info("Input CSV has not been specified. Default values in input template JSON file will be used.")
	}
	if err := validate.OutputDir(ctx, a.cfg.OutputDirectory); err != nil {
		return err
	}

	tpl, err := template.Load(a.cfg.TemplatePath)
	if err != nil {
		return err
	}

	var rows []csvinput.Row
	if a.cfg.CSVPath != "" {
		rows, err = csvinput.Load(a.cfg.CSVPath)
		if err != nil {
			return err
		}
		a.logger.Debug("Input CSV validated.", "rows", len(rows))
	}
	if len(rows) == 0 {
		// One calculation from the pristine template.
		rows = []csvinput.Row{nil}
	}

	client, err := api.NewClient(api.Options{
		BaseURL:     a.cfg.BaseURL,
		RequestType: a.cfg.RequestType,
		APIKey:      a.cfg.APIKey,
		StrictSSL:   a.cfg.StrictSSL,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	a.logger.Debug("Dispatching requests.", "count", len(rows), "type", a.cfg.RequestType, "output_file_type", a.cfg.OutputFileType)

	for i, row := range rows {
		prepared, err := template.Apply(tpl, row)
		if err != nil {
			return fmt.Errorf("CSV row %d: %w", i+1, err)
		}

		outcome, err := client.Send(ctx, prepared)
		if err != nil {
			return err
		}

		if err := api.Check(outcome); err != nil {
			// Surface the raw response before the fatal exit; remaining rows
			// are not processed.
			fmt.Fprintf(a.outW, "An HTTP %d error occurred with your request. Full response from the CloudRF API is listed below.\n%s\n", outcome.StatusCode, outcome.Body)
			return err
		}

		a.logger.Debug("Calculation succeeded.", "request", outcome.Name, "body", outcome.Body)

		if a.cfg.SaveRawResponse {
			if _, err := api.SaveRawResponse(ctx, a.cfg.OutputDirectory, outcome); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(a.outW, "Process completed. Please check your output folder (%s)\n", a.cfg.OutputDirectory)
	a.logger.Debug("App.Run method finished.")
	return nil
}
