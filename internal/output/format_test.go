package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"ID", "NAME"}, [][]string{
		{"1", "short"},
		{"22", "a longer value"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "NAME") {
		t.Errorf("header = %q", lines[0])
	}
	// Columns align: NAME starts at the same offset in every line.
	col := strings.Index(lines[0], "NAME")
	if strings.Index(lines[1], "short") != col || strings.Index(lines[2], "a longer") != col {
		t.Errorf("columns misaligned:\n%s", buf.String())
	}
}

func TestKeyValues(t *testing.T) {
	var buf bytes.Buffer
	KeyValues(&buf, [][2]string{{"Name", "Alpha"}, {"Status", "open"}})

	if !strings.Contains(buf.String(), "Name") || !strings.Contains(buf.String(), "open") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, map[string]int{"n": 1}); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"n\": 1\n}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestTree(t *testing.T) {
	var buf bytes.Buffer
	Tree(&buf, []TreeNode{
		{Label: "root", Depth: 0},
		{Label: "child", Depth: 1},
		{Label: "grandchild", Depth: 2},
	})

	want := "root\n  child\n    grandchild\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is too long", 7, "this is..."},
		{"héllo wörld", 5, "héllo..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestOrNone(t *testing.T) {
	if OrNone("") != "None" {
		t.Error("empty should map to None")
	}
	if OrNone("x") != "x" {
		t.Error("non-empty should pass through")
	}
}

func TestMask(t *testing.T) {
	if got := Mask("pk_1234567890abcdef"); got != "pk_12345...cdef" {
		t.Errorf("Mask(long) = %q", got)
	}
	if got := Mask("short"); got != "***" {
		t.Errorf("Mask(short) = %q", got)
	}
}
