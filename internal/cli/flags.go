package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/httpsreq/client"
)

type flags struct {
	headers   []string
	params    []string
	form      []string
	json      string
	data      string
	timeout   time.Duration
	insecure  bool
	userAgent string
	raise     bool
	output    string
	jsonPath  string
	schema    string
	noColor   bool
	verbose   bool
}

func (f *flags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringArrayVarP(&f.headers, "header", "H", nil, "header to send as 'Name: value' (repeatable)")
	fs.StringArrayVarP(&f.params, "param", "p", nil, "query parameter as key=value (repeatable)")
	fs.StringArrayVar(&f.form, "form", nil, "form field as key=value (repeatable)")
	fs.StringVar(&f.json, "json", "", "JSON document to send as the body")
	fs.StringVar(&f.data, "data", "", "raw text to send as the body")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "request timeout, 0 for none")
	fs.BoolVarP(&f.insecure, "insecure", "k", false, "skip certificate and hostname verification")
	fs.StringVar(&f.userAgent, "user-agent", "", "User-Agent header")
	fs.BoolVar(&f.raise, "raise", false, "exit with an error when the status is not 2xx or 3xx")
	fs.StringVarP(&f.output, "output", "o", formatText, "output format: text, json or yaml")
	fs.StringVar(&f.jsonPath, "jsonpath", "", "print only the value at this JSONPath of the body")
	fs.StringVar(&f.schema, "schema", "", "validate the JSON body against this JSON Schema file")
	fs.BoolVar(&f.noColor, "no-color", false, "disable colored output")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "print response headers and debug logs")

	cmd.MarkFlagsMutuallyExclusive("json", "data", "form")
}

// applyEnv fills flags the user did not set from env.
func (f *flags) applyEnv(cmd *cobra.Command, env envDefaults) {
	fs := cmd.Flags()

	if !fs.Changed("timeout") && env.Timeout > 0 {
		f.timeout = env.Timeout
	}
	if !fs.Changed("user-agent") && env.UserAgent != "" {
		f.userAgent = env.UserAgent
	}
	if !fs.Changed("insecure") && env.Insecure {
		f.insecure = true
	}
}

// sessionOptions maps flags onto session-wide options.
func (f *flags) sessionOptions() []client.Option {
	var opts []client.Option

	if f.timeout > 0 {
		opts = append(opts, client.WithTimeout(f.timeout))
	}
	if f.insecure {
		opts = append(opts, client.WithInsecureSkipVerify())
	}
	if f.userAgent != "" {
		opts = append(opts, client.WithUserAgent(f.userAgent))
	}

	return opts
}

// requestOptions maps flags onto per-call options.
func (f *flags) requestOptions() ([]client.RequestOption, error) {
	var opts []client.RequestOption

	for _, h := range f.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q: want 'Name: value'", h)
		}
		opts = append(opts, client.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value)))
	}

	params, err := parsePairs(f.params)
	if err != nil {
		return nil, fmt.Errorf("parsing params: %w", err)
	}
	if len(params) > 0 {
		opts = append(opts, client.WithParams(params))
	}

	switch {
	case f.json != "":
		var doc any
		if err := decodeDocument(f.json, &doc); err != nil {
			return nil, fmt.Errorf("parsing --json: %w", err)
		}
		opts = append(opts, client.WithJSON(doc))

	case f.data != "":
		opts = append(opts, client.WithData(client.Text(f.data)))

	case len(f.form) > 0:
		form, err := parsePairs(f.form)
		if err != nil {
			return nil, fmt.Errorf("parsing form: %w", err)
		}
		opts = append(opts, client.WithData(client.Form(form)))
	}

	return opts, nil
}

// parsePairs turns key=value arguments into ordered Values, grouping
// repeated keys at the position of their first occurrence.
func parsePairs(pairs []string) (client.Values, error) {
	var values client.Values
	index := make(map[string]int)

	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid pair %q: want key=value", p)
		}

		if i, seen := index[key]; seen {
			values[i].Values = append(values[i].Values, value)
			continue
		}

		index[key] = len(values)
		values = append(values, client.Param(key, value))
	}

	return values, nil
}
