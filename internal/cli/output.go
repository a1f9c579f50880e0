package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/adamwoolhether/httpsreq/client"
)

// Output formats accepted by --output.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func parseFormat(s string) (string, error) {
	switch s {
	case formatText, formatJSON, formatYAML:
		return s, nil
	default:
		return "", fmt.Errorf("unknown output format %q: want text, json or yaml", s)
	}
}

// colors is the palette for text output.
type colors struct {
	statusOK    *color.Color
	statusWarn  *color.Color
	statusError *color.Color
	headerKey   *color.Color
}

// newColors enables colors only when w is a terminal and noColor is off.
func newColors(w io.Writer, noColor bool) colors {
	c := colors{
		statusOK:    color.New(color.FgGreen, color.Bold),
		statusWarn:  color.New(color.FgYellow, color.Bold),
		statusError: color.New(color.FgRed, color.Bold),
		headerKey:   color.New(color.FgCyan),
	}

	enabled := !noColor && isTerminal(w)
	for _, col := range []*color.Color{c.statusOK, c.statusWarn, c.statusError, c.headerKey} {
		if enabled {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}

	return c
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c colors) status(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return c.statusOK
	case code >= 300 && code < 400:
		return c.statusWarn
	default:
		return c.statusError
	}
}

// responseData is the structured form of a response for json and yaml
// output.
type responseData struct {
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Status     string            `json:"status" yaml:"status"`
	URL        string            `json:"url" yaml:"url"`
	Encoding   string            `json:"encoding" yaml:"encoding"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       any               `json:"body,omitempty" yaml:"body,omitempty"`
}

type printer struct {
	w       io.Writer
	format  string
	verbose bool
	colors  colors
}

func (p printer) printResponse(resp *client.Response) error {
	switch p.format {
	case formatJSON, formatYAML:
		return p.encode(newResponseData(resp))
	default:
		return p.printText(resp)
	}
}

func (p printer) printText(resp *client.Response) error {
	status := p.colors.status(resp.StatusCode).Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	if _, err := fmt.Fprintf(p.w, "HTTP/1.1 %s\n", status); err != nil {
		return err
	}

	if p.verbose {
		for _, k := range slices.Sorted(maps.Keys(resp.Headers)) {
			if _, err := fmt.Fprintf(p.w, "%s: %s\n", p.colors.headerKey.Sprint(k), resp.Headers[k]); err != nil {
				return err
			}
		}
	}

	text := resp.Text()
	if text == "" {
		return nil
	}

	if _, err := fmt.Fprintln(p.w); err != nil {
		return err
	}

	_, err := fmt.Fprintln(p.w, text)
	return err
}

// printValue prints a single extracted value. Text output prints it raw.
func (p printer) printValue(v any) error {
	if p.format == formatText {
		if s, ok := v.(string); ok {
			_, err := fmt.Fprintln(p.w, s)
			return err
		}

		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding value: %w", err)
		}
		_, err = fmt.Fprintln(p.w, string(out))
		return err
	}

	return p.encode(v)
}

func (p printer) encode(v any) error {
	switch p.format {
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()

	default:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
}

// newResponseData embeds the body as a document when it parses as JSON
// and as text otherwise.
func newResponseData(resp *client.Response) responseData {
	data := responseData{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		URL:        resp.URL,
		Encoding:   resp.Encoding(),
		Headers:    resp.Headers,
	}

	if len(resp.Content) == 0 {
		return data
	}

	if body, err := resp.JSON(); err == nil {
		data.Body = body
	} else {
		data.Body = resp.Text()
	}

	return data
}
