package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestReporterHeaderAndFinal(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(Options{
		TotalSize:      2048,
		Output:         &buf,
		UpdateInterval: time.Millisecond,
		Label:          "test.tar",
	})

	r.Start()
	r.Add(1024)
	time.Sleep(5 * time.Millisecond)
	r.Add(1024)
	r.Finish()

	out := buf.String()
	if !strings.Contains(out, "Downloading: test.tar") {
		t.Errorf("expected header with label, got: %s", out)
	}
	if !strings.Contains(out, "2.00 KB") {
		t.Errorf("expected total size in output, got: %s", out)
	}
	if !strings.Contains(out, "Done:") {
		t.Errorf("expected final status line, got: %s", out)
	}
	if r.Written() != 2048 {
		t.Errorf("expected 2048 bytes written, got %d", r.Written())
	}
}

func TestReporterUnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(Options{
		Output:         &buf,
		UpdateInterval: time.Millisecond,
		Label:          "stream",
	})

	r.Start()
	time.Sleep(5 * time.Millisecond)
	r.Add(4096)
	r.Finish()

	out := buf.String()
	if strings.Contains(out, "%") {
		t.Errorf("expected no percentage for unknown total, got: %s", out)
	}
	if !strings.Contains(out, "4.00 KB") {
		t.Errorf("expected byte count in output, got: %s", out)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{1024, "1.00 KB"},
		{4 * 1024, "4.00 KB"},
		{1536 * 1024, "1.50 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
		{2 * 1024 * 1024 * 1024 * 1024, "2.00 TB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"4KB", 4 * 1024, false},
		{"256MB", 256 * 1024 * 1024, false},
		{"1GB", 1024 * 1024 * 1024, false},
		{"100B", 100, false},
		{"100", 100, false},
		{"1.5MB", 1536 * 1024, false},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseBytes(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseBytes(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBytes(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBytes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
