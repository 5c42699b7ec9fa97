package builtin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mwantia/cartvfs/command"
)

type WriteCommand struct{}

func (w *WriteCommand) Name() string {
	return "write"
}

func (w *WriteCommand) Description() string {
	return "Replace a file with the given text"
}

func (w *WriteCommand) Usage() string {
	return "write [-n] <path> <text>..."
}

func (w *WriteCommand) Execute(ctx context.Context, api command.API, args *command.CommandArgs, writer io.Writer) (int, error) {
	if err := args.Require(2); err != nil {
		return 2, err
	}

	path := args.Args[0]
	text := strings.Join(args.Args[1:], " ")
	if args.Bool("newline") {
		text += "\n"
	}

	if err := api.WriteBytes(ctx, path, []byte(text)); err != nil {
		return 1, err
	}

	fmt.Fprintf(writer, "wrote %d bytes to %s\n", len(text), path)
	return 0, nil
}

func (w *WriteCommand) GetFlags() *command.CommandFlagSet {
	return command.NewFlagSet(
		&command.CommandFlag{
			Name:        "newline",
			Short:       "n",
			Type:        command.FlagBool,
			Description: "append a trailing newline",
		},
	)
}
