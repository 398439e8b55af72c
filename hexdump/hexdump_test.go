package hexdump

import (
	"strings"
	"testing"
)

func TestDumpWithAddress(t *testing.T) {
	out := DumpWithAddress([]byte("ABC\x00"), 0x1000)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "000000001000  ") {
		t.Errorf("bad offset column: %q", lines[0])
	}
	if !strings.Contains(lines[0], "41 42 43 00") {
		t.Errorf("missing hex bytes: %q", lines[0])
	}
	if !strings.HasSuffix(lines[0], "|ABC.|") {
		t.Errorf("bad ASCII column: %q", lines[0])
	}
}

func TestDumpMultipleLines(t *testing.T) {
	data := make([]byte, 40)
	out := Dump(data, DefaultOptions())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines for 40 bytes, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "000000000010") {
		t.Errorf("second line offset wrong: %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "|........|") {
		t.Errorf("short final line ASCII wrong: %q", lines[2])
	}
}

func TestDumpEmpty(t *testing.T) {
	if out := Dump(nil, DefaultOptions()); out != "" {
		t.Fatalf("expected empty dump, got %q", out)
	}
}
