package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltIn(t *testing.T) {
	all := BuiltIn()

	for _, name := range []string{"bug_report", "feature_request", "sprint_task", "meeting_notes"} {
		tpl, ok := all[name]
		if !ok {
			t.Errorf("missing built-in %q", name)
			continue
		}
		if tpl.Custom() {
			t.Errorf("%q should not be custom", name)
		}
		if len(tpl.Variables) == 0 {
			t.Errorf("%q has no variables", name)
		}
		// Every declared variable must appear as a placeholder.
		body := tpl.Name + "\n" + tpl.Description
		for _, v := range tpl.Variables {
			if !strings.Contains(body, "{"+v+"}") {
				t.Errorf("%q declares unused variable %q", name, v)
			}
		}
	}
}

func TestExpand(t *testing.T) {
	tpl := Template{
		Name:        "[Bug] {title}",
		Description: "Severity: {severity}\nDetails: {title}",
		Variables:   []string{"title", "severity"},
	}

	name, description, err := tpl.Expand(map[string]string{"title": "Crash on save", "severity": "high"})
	if err != nil {
		t.Fatal(err)
	}
	if name != "[Bug] Crash on save" {
		t.Errorf("name = %q", name)
	}
	if description != "Severity: high\nDetails: Crash on save" {
		t.Errorf("description = %q", description)
	}
}

func TestExpand_MissingVariables(t *testing.T) {
	tpl := Template{
		Name:      "{a} {b} {c}",
		Variables: []string{"a", "b", "c"},
	}

	_, _, err := tpl.Expand(map[string]string{"b": "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "missing template variables: a, c") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_MergesCustom(t *testing.T) {
	dir := t.TempDir()
	custom := `{"name": "Incident: {title}", "description": "Impact: {impact}"}`
	if err := os.WriteFile(filepath.Join(dir, "incident.json"), []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}
	// Unparseable files are skipped.
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	all := Load(dir)

	tpl, ok := all["incident"]
	if !ok {
		t.Fatal("custom template not loaded")
	}
	if !tpl.Custom() {
		t.Error("expected custom flag")
	}
	// Variables inferred from placeholders.
	if len(tpl.Variables) != 2 {
		t.Errorf("variables = %v", tpl.Variables)
	}
	if _, ok := all["broken"]; ok {
		t.Error("broken template should be skipped")
	}
	if _, ok := all["bug_report"]; !ok {
		t.Error("built-ins should still be present")
	}
}

func TestLoad_CustomShadowsBuiltIn(t *testing.T) {
	dir := t.TempDir()
	custom := `{"name": "Override {x}", "description": ""}`
	if err := os.WriteFile(filepath.Join(dir, "bug_report.json"), []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}

	tpl, ok := Get(dir, "bug_report")
	if !ok {
		t.Fatal("template missing")
	}
	if !tpl.Custom() || tpl.Name != "Override {x}" {
		t.Errorf("built-in not shadowed: %+v", tpl)
	}
}

func TestLoad_MissingDir(t *testing.T) {
	all := Load(filepath.Join(t.TempDir(), "nope"))
	if len(all) != len(BuiltIn()) {
		t.Errorf("expected built-ins only, got %d", len(all))
	}
}

func TestNames_Sorted(t *testing.T) {
	names := Names(BuiltIn())
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}
