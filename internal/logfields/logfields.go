package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyDir        = "dir"
	KeyFile       = "file"
	KeySection    = "section"
	KeyEntries    = "entries"
	KeyDepth      = "depth"
	KeyFenceKind  = "fence_kind"
	KeyDiagramID  = "diagram_id"
	KeyFormat     = "format"
	KeyBuildID    = "build_id"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyEvent      = "event"
	KeyRoute      = "route"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Entries(n int) slog.Attr         { return slog.Int(KeyEntries, n) }
func Depth(n int) slog.Attr           { return slog.Int(KeyDepth, n) }
func FenceKind(k string) slog.Attr    { return slog.String(KeyFenceKind, k) }
func DiagramID(id string) slog.Attr   { return slog.String(KeyDiagramID, id) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Event(e string) slog.Attr        { return slog.String(KeyEvent, e) }
func Route(r string) slog.Attr        { return slog.String(KeyRoute, r) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
