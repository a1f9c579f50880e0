package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/httpsreq/client"
)

func run(cmd *cobra.Command, method, rawURL string, f flags) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	f.applyEnv(cmd, env)

	format, err := parseFormat(f.output)
	if err != nil {
		return err
	}

	var validator *schemaValidator
	if f.schema != "" {
		if validator, err = compileSchema(f.schema); err != nil {
			return err
		}
	}

	opts := f.sessionOptions()
	if f.verbose {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, client.WithLogger(logger))
	}

	session, err := client.Build(opts...)
	if err != nil {
		return fmt.Errorf("building session: %w", err)
	}

	reqOpts, err := f.requestOptions()
	if err != nil {
		return err
	}

	resp, err := session.Request(cmd.Context(), method, rawURL, reqOpts...)
	if err != nil {
		return err
	}

	p := printer{
		w:       cmd.OutOrStdout(),
		format:  format,
		verbose: f.verbose,
		colors:  newColors(cmd.OutOrStdout(), f.noColor),
	}

	if f.jsonPath != "" {
		value, err := extract(resp.Text(), f.jsonPath)
		if err != nil {
			return err
		}
		if err := p.printValue(value); err != nil {
			return err
		}
	} else if err := p.printResponse(resp); err != nil {
		return err
	}

	if validator != nil {
		if err := validator.validate(resp); err != nil {
			return err
		}
	}

	if f.raise {
		return resp.RaiseForStatus()
	}

	return nil
}

// decodeDocument parses a JSON document from the command line, keeping
// numbers as written.
func decodeDocument(doc string, dest any) error {
	d := json.NewDecoder(strings.NewReader(doc))
	d.UseNumber()

	if err := d.Decode(dest); err != nil {
		return err
	}

	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON document")
	}

	return nil
}
