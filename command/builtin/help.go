package builtin

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/mwantia/cartvfs/command"
)

type HelpCommand struct {
	center *command.CommandCenter
}

func (h *HelpCommand) Name() string {
	return "help"
}

func (h *HelpCommand) Description() string {
	return "Show available commands or the usage of one"
}

func (h *HelpCommand) Usage() string {
	return "help [command]"
}

func (h *HelpCommand) Execute(ctx context.Context, api command.API, args *command.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) > 0 {
		cmd, ok := h.center.Get(args.Args[0])
		if !ok {
			return 1, fmt.Errorf("%w: %s", command.ErrUnknownCommand, args.Args[0])
		}
		writeUsage(writer, cmd)
		return 0, nil
	}

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	for _, cmd := range h.center.Commands() {
		fmt.Fprintf(tw, "%s\t%s\n", cmd.Name(), cmd.Description())
	}
	if err := tw.Flush(); err != nil {
		return 1, err
	}
	return 0, nil
}

func (h *HelpCommand) GetFlags() *command.CommandFlagSet {
	return nil
}

func writeUsage(writer io.Writer, cmd command.Command) {
	fmt.Fprintf(writer, "usage: %s\n\n%s\n", cmd.Usage(), cmd.Description())

	flagSet := cmd.GetFlags()
	if flagSet == nil || len(flagSet.Flags) == 0 {
		return
	}

	names := make([]string, 0, len(flagSet.Flags))
	for name := range flagSet.Flags {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(writer, "\nflags:")
	for _, name := range names {
		flag := flagSet.Flags[name]
		if flag.Short != "" {
			fmt.Fprintf(writer, "  -%s, --%s\t%s\n", flag.Short, flag.Name, flag.Description)
		} else {
			fmt.Fprintf(writer, "      --%s\t%s\n", flag.Name, flag.Description)
		}
	}
}
