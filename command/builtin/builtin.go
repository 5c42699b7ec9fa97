// Package builtin provides the standard shell commands.
package builtin

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/cartvfs/command"
)

// InitBuiltin registers every builtin command with cc.
func InitBuiltin(cc *command.CommandCenter) error {
	commands := []command.Command{
		&LsCommand{},
		&CatCommand{},
		&WriteCommand{},
		&RmCommand{},
		&StatCommand{},
		&DfCommand{},
		&HelpCommand{center: cc},
	}

	for _, cmd := range commands {
		if err := cc.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

func formatSize(size int64, human bool) string {
	if human {
		return humanize.IBytes(uint64(size))
	}
	return fmt.Sprintf("%d", size)
}
