package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list`.
type ListCmd struct {
	open bool
	ids  bool
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "todo list [--open] [--ids]" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.open, "open", false, "")
	fs.BoolVar(&c.ids, "ids", false, "")
}

// Run prints every task with its row number. With --open, completed tasks
// are skipped but the remaining rows keep their numbers so refs stay valid.
func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	tasks, err := svc.List(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	shown := 0
	for i, t := range tasks {
		if c.open && t.Completed {
			continue
		}
		if c.ids {
			output.FormatTaskWithID(out, i+1, t)
		} else {
			output.FormatTask(out, i+1, t)
		}
		shown++
	}

	if shown == 0 && !cfg.Quiet {
		fmt.Fprintln(out, output.EmptyMessage)
	}
	return exitcode.Success
}
