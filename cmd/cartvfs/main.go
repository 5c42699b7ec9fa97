// Command cartvfs runs a single shell command against the sandboxed
// filesystem of a cartridge, e.g.
//
//	cartvfs --cartridge ./snake.cart --save-root ~/.local/share/cartvfs ls -l save:/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	vfs "github.com/mwantia/cartvfs"
	"github.com/mwantia/cartvfs/cartridge"
	"github.com/mwantia/cartvfs/command"
	"github.com/mwantia/cartvfs/command/builtin"
	"github.com/mwantia/cartvfs/config"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("cartvfs", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	configPath := flags.StringP("config", "c", "", "config file (default "+config.GetDefaultConfigPath()+")")
	config.RegisterFlags(flags)

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: cartvfs [flags] <command> [args...]\n\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, *configPath, flags, flags.Args(), os.Stdout, os.Stderr)
	stop()

	os.Exit(code)
}

// run loads the configuration, initialises the filesystem and executes line.
// An empty line runs "help".
func run(ctx context.Context, configPath string, flags *pflag.FlagSet, line []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(configPath, flags)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger := cfg.NewLogger("cartvfs")

	manifest, err := cartridge.LoadManifest(ctx, cfg.Cartridge.Path)
	if err != nil {
		if !errors.Is(err, cartridge.ErrNoManifest) || cfg.Cartridge.ID == "" {
			fmt.Fprintf(stderr, "Failed to load cartridge manifest: %v\n", err)
			return 1
		}
		logger.Warn("Cartridge '%s' has no manifest, using configured id '%s'", cfg.Cartridge.Path, cfg.Cartridge.ID)
	}

	session, err := cfg.SessionConfig(manifest)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid session config: %v\n", err)
		return 1
	}

	fs, err := vfs.NewVirtualFileSystem(vfs.WithLogger(logger.Named("vfs")))
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create filesystem: %v\n", err)
		return 1
	}
	if err := fs.Init(ctx, session); err != nil {
		fmt.Fprintf(stderr, "Failed to initialize filesystem: %v\n", err)
		return 1
	}
	defer func() {
		if err := fs.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("Failed to shut down filesystem: %v", err)
		}
	}()

	center := command.NewCommandCenter()
	if err := builtin.InitBuiltin(center); err != nil {
		fmt.Fprintf(stderr, "Failed to setup command center: %v\n", err)
		return 1
	}

	if len(line) == 0 {
		line = []string{"help"}
	}

	code, err := center.Execute(ctx, fs, line, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
	}
	return code
}
