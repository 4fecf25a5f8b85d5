package trace

import "log/slog"

// LevelFatal sits above slog.LevelError. Trace records use it so they stand
// out regardless of the configured threshold.
const LevelFatal = slog.Level(12)

// ReplaceLevel is a slog.HandlerOptions.ReplaceAttr that prints LevelFatal as "FATAL".
func ReplaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	if level, ok := a.Value.Any().(slog.Level); ok && level >= LevelFatal {
		a.Value = slog.StringValue("FATAL")
	}
	return a
}
