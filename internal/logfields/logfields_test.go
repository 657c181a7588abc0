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
		{"Path", KeyPath, "guide/intro.md", Path("guide/intro.md")},
		{"Dir", KeyDir, "guide", Dir("guide")},
		{"File", KeyFile, "intro.md", File("intro.md")},
		{"Section", KeySection, "/guide/", Section("/guide/")},
		{"FenceKind", KeyFenceKind, "diagram", FenceKind("diagram")},
		{"DiagramID", KeyDiagramID, "mermaid-4", DiagramID("mermaid-4")},
		{"Format", KeyFormat, "json", Format("json")},
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Method", KeyMethod, "POST", Method("POST")},
		{"Event", KeyEvent, "WRITE", Event("WRITE")},
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
	if v := Entries(3); v.Key != KeyEntries || v.Value.Int64() != 3 {
		t.Fatalf("Entries mismatch: %v", v)
	}
	if v := Depth(2); v.Key != KeyDepth {
		t.Fatalf("Depth key mismatch: %s", v.Key)
	}
	if v := Status(200); v.Key != KeyStatus {
		t.Fatalf("Status key mismatch: %s", v.Key)
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
