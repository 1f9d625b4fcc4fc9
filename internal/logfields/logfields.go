package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyEntry      = "entry"
	KeyDurationMS = "duration_ms"
	KeyAssetID    = "asset_id"
	KeyPath       = "path"
	KeySpecifier  = "specifier"
	KeyImporter   = "importer"
	KeyLoader     = "loader"
	KeyRule       = "rule"
	KeyHook       = "hook"
	KeyTap        = "tap"
	KeyPlugin     = "plugin"
	KeyAssets     = "assets"
	KeyBytes      = "bytes"
	KeyOutput     = "output"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Entry(p string) slog.Attr         { return slog.String(KeyEntry, p) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func AssetID(id int) slog.Attr         { return slog.Int(KeyAssetID, id) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Specifier(s string) slog.Attr     { return slog.String(KeySpecifier, s) }
func Importer(p string) slog.Attr      { return slog.String(KeyImporter, p) }
func Loader(name string) slog.Attr     { return slog.String(KeyLoader, name) }
func Rule(pattern string) slog.Attr    { return slog.String(KeyRule, pattern) }
func Hook(name string) slog.Attr       { return slog.String(KeyHook, name) }
func Tap(label string) slog.Attr       { return slog.String(KeyTap, label) }
func Plugin(name string) slog.Attr     { return slog.String(KeyPlugin, name) }
func Assets(n int) slog.Attr           { return slog.Int(KeyAssets, n) }
func Bytes(n int) slog.Attr            { return slog.Int(KeyBytes, n) }
func Output(p string) slog.Attr        { return slog.String(KeyOutput, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
