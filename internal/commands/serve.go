package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/httpapi"
	"todo/internal/logging"
	"todo/internal/service"
)

// DefaultAddr is the listen address for serve.
const DefaultAddr = ":8080"

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Serve the task list over HTTP" }
func (c *ServeCmd) Usage() string      { return "todo serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsService() bool { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", DefaultAddr, "")
}

// Run blocks until ctx is cancelled (SIGINT/SIGTERM in main).
func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	log := logging.New(errOut, cfg.LogFormat, cfg.Debug)
	if !cfg.Quiet {
		fmt.Fprintf(out, "listening on %s\n", c.addr)
	}

	if err := httpapi.New(svc, log).Run(ctx, c.addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
