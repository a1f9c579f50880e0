// Package cli implements the httpsreq command line: one subcommand per
// HTTP method, each sending a single request and printing the response.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// NewRootCmd returns the command tree. Output goes to the command's
// configured writers so callers and tests can capture it.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "httpsreq",
		Short:   "Send a single HTTPS request and print the response",
		Version: version,
		Long: `httpsreq builds an HTTP/1.1 request, sends it over a fresh TLS
connection and prints the response status, headers and body.

Defaults for --timeout, --user-agent and --insecure may be set with
HTTPSREQ_TIMEOUT, HTTPSREQ_USER_AGENT and HTTPSREQ_INSECURE, either in the
environment or in a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	for _, method := range []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodHead,
		http.MethodOptions,
		http.MethodPatch,
	} {
		root.AddCommand(newMethodCmd(method))
	}

	return root
}

// Execute runs the command tree with args, reporting the first error.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("executing command: %w", err)
	}

	return nil
}

func newMethodCmd(method string) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " URL",
		Short: fmt.Sprintf("Send a %s request to URL", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, method, args[0], f)
		},
	}

	f.register(cmd)

	return cmd
}
