package main

import (
	"log/slog"
	"os"

	"github.com/signadot/cfgtree/debug"
)

var (
	logLevel = &slog.LevelVar{}
	theLog   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
)

func setVerbose(v bool) {
	if !v {
		logLevel.Set(slog.LevelInfo)
		return
	}
	logLevel.Set(slog.LevelDebug)
	debug.SetLogger(theLog)
}
