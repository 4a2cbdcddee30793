package debug

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
)

type debug struct {
	Parse  bool
	Refs   bool
	Schema bool
	Load   bool
	Patch  bool
	Eval   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("CFGTREE_DEBUG_PARSE")
	d.Refs = boolEnv("CFGTREE_DEBUG_REFS")
	d.Schema = boolEnv("CFGTREE_DEBUG_SCHEMA")
	d.Load = boolEnv("CFGTREE_DEBUG_LOAD")
	d.Patch = boolEnv("CFGTREE_DEBUG_PATCH")
	d.Eval = boolEnv("CFGTREE_DEBUG_EVAL")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Refs() bool {
	return d.Refs
}
func Schema() bool {
	return d.Schema
}
func Load() bool {
	return d.Load
}
func Patch() bool {
	return d.Patch
}
func Eval() bool {
	return d.Eval
}

var (
	logMu  sync.Mutex
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
)

// SetLogger replaces the logger used by Logf.
func SetLogger(l *slog.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = l
}

func Logger() *slog.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	return logger
}

// Logf logs a formatted debug message. Callers guard it with one of the
// switches above.
func Logf(format string, args ...any) {
	Logger().Debug(fmt.Sprintf(format, args...))
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		Logf("%v", v)
		return
	}
	Logf("%s", d)
}
