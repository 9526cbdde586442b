package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/citation/pkg/citation/layout"
)

func runGeometryCommand(t *testing.T, args ...string) string {
	t.Helper()
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(append([]string{"geometry"}, args...))
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("geometry %v: %v", args, err)
	}
	return out.String()
}

func TestGeometryTable(t *testing.T) {
	out := runGeometryCommand(t)
	for _, want := range []string{"title width", "reason height", "frames", "335"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGeometryJSON(t *testing.T) {
	out := runGeometryCommand(t, "--json", "--timeline", "--width", "500")

	var doc struct {
		Width    int            `json:"width"`
		Geometry layout.Profile `json:"geometry"`
		Frames   int            `json:"frames"`
		Timeline []int          `json:"timeline"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc.Width != 500 {
		t.Errorf("width = %d, want 500", doc.Width)
	}
	if doc.Geometry.TextFromLeft == 0 {
		t.Error("geometry is empty")
	}
	if len(doc.Timeline) != doc.Frames {
		t.Errorf("timeline has %d entries, frames = %d", len(doc.Timeline), doc.Frames)
	}
}
