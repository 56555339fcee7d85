package progress

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// TotalSize is the expected size in bytes, from content-length.
	// Zero means unknown; percentages and ETA are then omitted.
	TotalSize int64

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is the minimum interval between display updates.
	// Default: 500ms
	UpdateInterval time.Duration

	// Label identifies what is being transferred (for display).
	Label string
}

// Reporter outputs human-readable transfer progress for one sequential
// download. It is not safe for concurrent use; transfers here are
// strictly one at a time.
type Reporter struct {
	opts Options

	written    int64
	startTime  time.Time
	lastUpdate time.Time
	lastBytes  int64
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{opts: opts}
}

// Start prints the header and begins timing.
func (r *Reporter) Start() {
	r.startTime = time.Now()
	r.lastUpdate = r.startTime

	if r.opts.TotalSize > 0 {
		fmt.Fprintf(r.opts.Output, "[rabpro] Downloading: %s (%s)\n", r.opts.Label, formatBytes(r.opts.TotalSize))
	} else {
		fmt.Fprintf(r.opts.Output, "[rabpro] Downloading: %s\n", r.opts.Label)
	}
}

// Add records n more bytes written and refreshes the display when the
// update interval has elapsed.
func (r *Reporter) Add(n int64) {
	r.written += n

	now := time.Now()
	if now.Sub(r.lastUpdate) < r.opts.UpdateInterval {
		return
	}

	elapsed := now.Sub(r.lastUpdate).Seconds()
	speed := float64(r.written-r.lastBytes) / elapsed
	r.lastUpdate = now
	r.lastBytes = r.written

	if r.opts.TotalSize > 0 {
		percent := float64(r.written) / float64(r.opts.TotalSize) * 100
		var eta string
		if speed > 0 {
			remaining := float64(r.opts.TotalSize - r.written)
			eta = formatDuration(time.Duration(remaining / speed * float64(time.Second)))
		} else {
			eta = "calculating..."
		}
		fmt.Fprintf(r.opts.Output, "\r[rabpro] Progress: %.1f%% | %s / %s | Speed: %s/s | ETA: %s    ",
			percent,
			formatBytes(r.written),
			formatBytes(r.opts.TotalSize),
			formatBytes(int64(speed)),
			eta,
		)
	} else {
		fmt.Fprintf(r.opts.Output, "\r[rabpro] Progress: %s | Speed: %s/s    ",
			formatBytes(r.written),
			formatBytes(int64(speed)),
		)
	}
}

// Written returns the total bytes recorded so far.
func (r *Reporter) Written() int64 {
	return r.written
}

// Finish prints the final status line.
func (r *Reporter) Finish() {
	duration := time.Since(r.startTime)
	avgSpeed := float64(r.written) / duration.Seconds()

	fmt.Fprintf(r.opts.Output, "\r[rabpro] Done: %s in %s (%s/s)    \n",
		formatBytes(r.written),
		formatDuration(duration),
		formatBytes(int64(avgSpeed)),
	)
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// FormatBytes is exported for use by other packages.
func FormatBytes(b int64) string {
	return formatBytes(b)
}

// ParseBytes parses a human-readable byte string (e.g., "256MB").
func ParseBytes(s string) (int64, error) {
	var multiplier int64 = 1
	s = trimSuffix(s, " ")

	switch {
	case hasSuffix(s, "TB"):
		multiplier = 1024 * 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "KB"):
		multiplier = 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "B"):
		s = s[:len(s)-1]
	}

	var value float64
	_, err := fmt.Sscanf(s, "%f", &value)
	if err != nil {
		return 0, fmt.Errorf("invalid byte string: %s", s)
	}

	return int64(value * float64(multiplier)), nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func trimSuffix(s, suffix string) string {
	for hasSuffix(s, suffix) {
		s = s[:len(s)-len(suffix)]
	}
	return s
}
