package logging

import (
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Config selects the go-logger level and output format.
type Config struct {
	Level     string
	Format    string
	AddSource bool
}

// New builds a Logger backed by go-logger.
func New(cfg Config) (Logger, error) {
	options := []glog.Option{}

	level, err := normalizeLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if level != "" {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported format %q", cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	return &adapter{root: root, inner: root}, nil
}

type adapter struct {
	root  *glog.BaseLogger
	inner glog.Logger
	name  string
}

func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// Named returns a go-logger child; names nest with dots.
func (l *adapter) Named(name string) Logger {
	name = strings.TrimSpace(name)
	if name == "" || l.root == nil {
		return l
	}
	if l.name != "" {
		name = l.name + "." + name
	}
	child := l.root.GetLogger(name)
	if child == nil {
		return l
	}
	return &adapter{root: l.root, inner: child, name: name}
}

func normalizeLevel(level string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return "", nil
	case "trace":
		return glog.Trace, nil
	case "debug":
		return glog.Debug, nil
	case "info":
		return glog.Info, nil
	case "warn", "warning":
		return glog.Warn, nil
	case "error":
		return glog.Error, nil
	default:
		return "", fmt.Errorf("logging: unsupported level %q", level)
	}
}
