package vfs

import "github.com/mwantia/cartvfs/log"

type VirtualFileSystemOptions struct {
	LogLevel      log.LogLevel
	LogFile       string
	NoTerminalLog bool
	Logger        *log.Logger
}

type VirtualFileSystemOption func(*VirtualFileSystemOptions) error

func newDefaultVirtualFileSystemOptions() *VirtualFileSystemOptions {
	return &VirtualFileSystemOptions{
		LogLevel: log.Info,
	}
}

func WithLogLevel(logLevel log.LogLevel) VirtualFileSystemOption {
	return func(opts *VirtualFileSystemOptions) error {
		opts.LogLevel = logLevel
		return nil
	}
}

func WithoutTerminalLog() VirtualFileSystemOption {
	return func(opts *VirtualFileSystemOptions) error {
		opts.NoTerminalLog = true
		return nil
	}
}

func WithLogFile(logFile string) VirtualFileSystemOption {
	return func(opts *VirtualFileSystemOptions) error {
		opts.LogFile = logFile

		return nil
	}
}

// WithLogger uses logger instead of creating a new one. Level and file
// options are ignored in that case.
func WithLogger(logger *log.Logger) VirtualFileSystemOption {
	return func(opts *VirtualFileSystemOptions) error {
		opts.Logger = logger
		return nil
	}
}
