package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTextfile(t *testing.T) {
	FetchesTotal.WithLabelValues("current_status", "ok").Inc()
	StatusSeverity.WithLabelValues("current_status").Set(2)

	path := filepath.Join(t.TempDir(), "aurorawatch.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		`aurorawatch_fetches_total{outcome="ok",schema="current_status"}`,
		`aurorawatch_status_severity{schema="current_status"} 2`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "go_goroutines") {
		t.Error("textfile should not contain Go runtime metrics")
	}
}

func TestWriteTextfile_BadPath(t *testing.T) {
	if err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom")); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
