// Package logging provides the structured logger used across pubx.
package logging

import (
	"io"
	"os"

	"github.com/baditaflorin/l"
)

// Logger is the logging interface the rest of pubx depends on.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Close() error
}

// Options configures a logger.
type Options struct {
	Output  io.Writer // Defaults to os.Stderr
	JSON    bool
	Verbose bool // Emit Debug and Info; otherwise only Warn and Error
}

// adapter wraps an l.Logger and applies the verbosity threshold.
type adapter struct {
	logger  l.Logger
	verbose bool
}

// New creates a logger writing to opts.Output.
func New(opts Options) (Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	logger, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      out,
		JsonFormat:  opts.JSON,
		AsyncWrite:  false,
		BufferSize:  64 * 1024,
		MaxFileSize: 10 * 1024 * 1024,
		MaxBackups:  1,
		AddSource:   opts.Verbose,
		Metrics:     false,
	})
	if err != nil {
		return nil, err
	}
	return &adapter{logger: logger, verbose: opts.Verbose}, nil
}

func (a *adapter) Debug(msg string, keysAndValues ...interface{}) {
	if a.verbose {
		a.logger.Debug(msg, keysAndValues...)
	}
}

func (a *adapter) Info(msg string, keysAndValues ...interface{}) {
	if a.verbose {
		a.logger.Info(msg, keysAndValues...)
	}
}

func (a *adapter) Warn(msg string, keysAndValues ...interface{}) {
	a.logger.Warn(msg, keysAndValues...)
}

func (a *adapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, keysAndValues...)
}

func (a *adapter) Close() error {
	return a.logger.Close()
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nop{}
}

type nop struct{}

func (nop) Debug(string, ...interface{}) {}
func (nop) Info(string, ...interface{})  {}
func (nop) Warn(string, ...interface{})  {}
func (nop) Error(string, ...interface{}) {}
func (nop) Close() error                 { return nil }
