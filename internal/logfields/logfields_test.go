package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Stage", KeyStage, "emit", Stage("emit")},
		{"Entry", KeyEntry, "/src/main.js", Entry("/src/main.js")},
		{"Path", KeyPath, "/src/main.js", Path("/src/main.js")},
		{"Specifier", KeySpecifier, "./foo.js", Specifier("./foo.js")},
		{"Importer", KeyImporter, "/src/main.js", Importer("/src/main.js")},
		{"Loader", KeyLoader, "json", Loader("json")},
		{"Rule", KeyRule, `\.json$`, Rule(`\.json$`)},
		{"Hook", KeyHook, "afterEmit", Hook("afterEmit")},
		{"Tap", KeyTap, "manifest", Tap("manifest")},
		{"Plugin", KeyPlugin, "outputpath", Plugin("outputpath")},
		{"Output", KeyOutput, "dist/bundle.js", Output("dist/bundle.js")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestNumericHelpers verifies keys for numeric & float helpers.
func TestNumericHelpers(t *testing.T) {
	if v := AssetID(3); v.Key != KeyAssetID || v.Value.Int64() != 3 {
		t.Fatalf("AssetID mismatch: %v", v)
	}
	if v := Assets(7); v.Key != KeyAssets {
		t.Fatalf("Assets key mismatch: %s", v.Key)
	}
	if v := Bytes(42); v.Key != KeyBytes {
		t.Fatalf("Bytes key mismatch: %s", v.Key)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Fatalf("Error key mismatch: %s", attr.Key)
	}
	if attr.Value.String() != "" {
		t.Fatalf("Expected empty error string, got %s", attr.Value.String())
	}
	attr = Error(errTest{})
	if attr.Value.String() != "err-test" {
		t.Fatalf("Expected 'err-test', got %s", attr.Value.String())
	}
}

type errTest struct{}

func (e errTest) Error() string { return "err-test" }
