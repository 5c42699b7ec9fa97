package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/cartvfs/command"
	"github.com/mwantia/cartvfs/data"
)

const lsTimeFormat = "2006-01-02 15:04"

type LsCommand struct{}

func (ls *LsCommand) Name() string {
	return "ls"
}

func (ls *LsCommand) Description() string {
	return "List directory contents"
}

func (ls *LsCommand) Usage() string {
	return "ls [-l] [-H] [path]"
}

func (ls *LsCommand) Execute(ctx context.Context, api command.API, args *command.CommandArgs, writer io.Writer) (int, error) {
	path := "cart:/"
	if len(args.Args) > 0 {
		path = args.Args[0]
	}

	stat, err := api.Stat(ctx, path)
	if err != nil {
		return 1, err
	}

	entries := []*data.FileStat{stat}
	if stat.Mode.IsDir() {
		if entries, err = api.List(ctx, path); err != nil {
			return 1, err
		}
	}

	long := args.Bool("long")
	human := args.Bool("human")
	for _, entry := range entries {
		name := entry.Name()
		if entry.Mode.IsDir() {
			name += "/"
		}

		if !long {
			fmt.Fprintln(writer, name)
			continue
		}
		fmt.Fprintf(writer, "%s %10s %s %s\n",
			entry.Mode, formatSize(entry.Size, human), entry.ModifyTime.Format(lsTimeFormat), name)
	}

	return 0, nil
}

func (ls *LsCommand) GetFlags() *command.CommandFlagSet {
	return command.NewFlagSet(
		&command.CommandFlag{
			Name:        "long",
			Short:       "l",
			Type:        command.FlagBool,
			Description: "use a long listing format",
		},
		&command.CommandFlag{
			Name:        "human",
			Short:       "H",
			Type:        command.FlagBool,
			Description: "print sizes like 1.5 KiB",
		},
	)
}
