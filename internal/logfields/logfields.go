// Package logfields centralizes slog attribute construction so field names
// stay consistent across packages.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyName       = "name"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyRepo       = "repository"
	KeyBranch     = "branch"
	KeyDigest     = "digest"
	KeyCount      = "count"
	KeySubject    = "subject"
	KeyInterval   = "interval"
	KeyDurationMS = "duration_ms"
	KeyRunID      = "run_id"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func Branch(b string) slog.Attr       { return slog.String(KeyBranch, b) }
func Digest(d string) slog.Attr       { return slog.String(KeyDigest, d) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Interval(i string) slog.Attr     { return slog.String(KeyInterval, i) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
