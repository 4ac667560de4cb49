package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/task"
)

func init() {
	Register(&PriorityCmd{})
}

// PriorityCmd implements the priority command.
type PriorityCmd struct{}

func (c *PriorityCmd) Name() string       { return "priority" }
func (c *PriorityCmd) Aliases() []string  { return []string{"prio"} }
func (c *PriorityCmd) Synopsis() string   { return "Change a task's priority" }
func (c *PriorityCmd) Usage() string      { return "todo priority <ref> <High|Medium|Low>" }
func (c *PriorityCmd) NeedsService() bool { return true }

func (c *PriorityCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PriorityCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	switch {
	case len(args) == 0:
		fmt.Fprintln(errOut, "error: task reference required")
		return exitcode.UserError
	case len(args) == 1:
		fmt.Fprintln(errOut, "error: priority required")
		return exitcode.UserError
	case len(args) > 2:
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[2])
		return exitcode.UserError
	}

	// Validate the level before touching the list
	priority, err := task.ParsePriority(args[1])
	if err != nil {
		return reportError(errOut, err)
	}

	t, err := resolveTask(ctx, svc, args[0])
	if err != nil {
		return reportError(errOut, err)
	}

	if err := svc.SetPriority(ctx, t.ID, priority); err != nil {
		return reportError(errOut, err)
	}

	printOK(cfg, out)
	return exitcode.Success
}
