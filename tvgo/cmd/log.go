package cmd

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slog"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

func Logger(w io.Writer, lvl slog.Level) log.Logger {
	return log.NewLogger(log.LogfmtHandlerWithLevel(w, lvl))
}

func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// LoggingWriter logs the bytes a program emits through OUT. Printable
// output is logged as text, anything else as hex.
type LoggingWriter struct {
	Name string
	Log  log.Logger
}

func printable(r rune) bool {
	return r == '\n' || r == '\t' || (r >= 0x20 && r < 0x7F)
}

func (lw *LoggingWriter) Write(b []byte) (int, error) {
	if t := string(b); strings.IndexFunc(t, func(r rune) bool { return !printable(r) }) < 0 {
		lw.Log.Info(lw.Name, "len", len(b), "text", t)
	} else {
		lw.Log.Info(lw.Name, "len", len(b), "data", hexutil.Bytes(b))
	}
	return len(b), nil
}

// HexU32 to lazy-format integer attributes for logging
type HexU32 uint32

func (v HexU32) String() string {
	return fmt.Sprintf("%08x", uint32(v))
}

func (v HexU32) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
