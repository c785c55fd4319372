package bpe

import (
	"context"
	"log/slog"
)

// MergeToSlog writes a debug record describing a learned merge.
func MergeToSlog(logger *slog.Logger, m Merge) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"pair", m.Pair,
		"replacement", m.Replacement,
		"count", m.Count,
	}
	attrs = addIf(attrs, "rewritten", m.Rewritten)

	logger.Debug("Merge learned", attrs...)
}

// addIf appends name/value unless v is the zero value.
func addIf[T comparable](attrs []any, name string, v T) []any {
	var zero T
	if v != zero {
		attrs = append(attrs, name, v)
	}
	return attrs
}
