package fetch

import (
	"context"
	"fmt"
	"io"
	"os"

	rabprohttp "github.com/tzussman/rabpro/internal/http"
	"github.com/tzussman/rabpro/internal/progress"
)

// chunkSize is the read/write granularity for streamed bodies.
const chunkSize = 4 * 1024

// Outcome reports how a download attempt ended.
type Outcome int

const (
	// Downloaded means the file was transferred and renamed into place.
	Downloaded Outcome = iota
	// Skipped means the destination already existed and SkipIfExists was set.
	Skipped
	// Failed means the server answered with a non-200 status or the
	// transfer broke; the destination path was not touched.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Downloaded:
		return "downloaded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Task describes one file transfer. Construct per file, execute once.
type Task struct {
	URL          string
	Dest         string
	Auth         *rabprohttp.BasicAuth
	SkipIfExists bool
}

// Options configures a Fetcher.
type Options struct {
	// Progress enables per-file progress reporting.
	Progress bool

	// Output is where failure reports and progress go.
	// Default: os.Stderr
	Output io.Writer
}

// Fetcher executes download tasks against a shared HTTP client.
type Fetcher struct {
	client *rabprohttp.Client
	opts   Options
}

// New creates a Fetcher using the given client.
func New(client *rabprohttp.Client, opts Options) *Fetcher {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	return &Fetcher{client: client, opts: opts}
}

// Client exposes the underlying HTTP client for callers that issue
// plain requests alongside downloads.
func (f *Fetcher) Client() *rabprohttp.Client {
	return f.client
}

// Download executes one task. A non-200 response is reported to the
// output writer and returns Failed with a nil error; transport and
// filesystem problems return Failed with the error. On Failed the
// destination path is never created or modified.
func (f *Fetcher) Download(ctx context.Context, task Task) (Outcome, error) {
	if task.SkipIfExists {
		if _, err := os.Stat(task.Dest); err == nil {
			return Skipped, nil
		}
	}

	resp, err := f.client.Get(ctx, task.URL, task.Auth)
	if err != nil {
		return Failed, fmt.Errorf("get %s: %w", task.URL, err)
	}

	if resp.StatusCode != 200 {
		fmt.Fprintf(f.opts.Output, "[rabpro] %s failed with status code %d\n", task.URL, resp.StatusCode)
		return Failed, nil
	}
	defer resp.Body.Close()

	fmt.Fprintf(f.opts.Output, "[rabpro] Downloading '%s' into '%s'\n", task.URL, task.Dest)

	var reporter *progress.Reporter
	if f.opts.Progress {
		total := resp.ContentLength
		if total < 0 {
			total = 0
		}
		reporter = progress.NewReporter(progress.Options{
			TotalSize: total,
			Output:    f.opts.Output,
			Label:     task.Dest,
		})
		reporter.Start()
	}

	if err := f.writeFile(task.Dest, resp.Body, reporter); err != nil {
		return Failed, fmt.Errorf("write %s: %w", task.Dest, err)
	}

	if reporter != nil {
		reporter.Finish()
	}

	return Downloaded, nil
}

// writeFile streams body into dest via a temporary sibling file that is
// renamed over dest on success and removed on any failure.
func (f *Fetcher) writeFile(dest string, body io.Reader, reporter *progress.Reporter) error {
	tmp := dest + ".part"

	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if err := copyChunks(out, body, reporter); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}

	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close: %w", err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename into place: %w", err)
	}

	return nil
}

// copyChunks copies in fixed-size chunks, advancing the reporter per chunk.
func copyChunks(dst io.Writer, src io.Reader, reporter *progress.Reporter) error {
	buf := make([]byte, chunkSize)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("write chunk: %w", writeErr)
			}
			if reporter != nil {
				reporter.Add(int64(n))
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read body: %w", readErr)
		}
	}
}
