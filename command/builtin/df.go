package builtin

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mwantia/cartvfs/command"
	"github.com/mwantia/cartvfs/data"
)

type DfCommand struct{}

func (df *DfCommand) Name() string {
	return "df"
}

func (df *DfCommand) Description() string {
	return "Report quota usage of the save and temp namespaces"
}

func (df *DfCommand) Usage() string {
	return "df [-H]"
}

func (df *DfCommand) Execute(ctx context.Context, api command.API, args *command.CommandArgs, writer io.Writer) (int, error) {
	human := args.Bool("human")

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAMESPACE\tUSED\tLIMIT\tUSE%")

	for _, ns := range data.Namespaces() {
		used, limit, ok := api.Usage(ns)
		if !ok {
			continue
		}

		percent := 0.0
		if limit > 0 {
			percent = float64(used) / float64(limit) * 100
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f%%\n",
			ns, formatSize(used, human), formatSize(limit, human), percent)
	}

	if err := tw.Flush(); err != nil {
		return 1, err
	}
	return 0, nil
}

func (df *DfCommand) GetFlags() *command.CommandFlagSet {
	return command.NewFlagSet(
		&command.CommandFlag{
			Name:        "human",
			Short:       "H",
			Type:        command.FlagBool,
			Description: "print sizes like 1.5 KiB",
		},
	)
}
