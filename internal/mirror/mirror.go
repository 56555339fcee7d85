package mirror

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// Options configures a mirror operation.
type Options struct {
	// Prefix namespaces all keys in the bucket.
	Prefix string

	// Output is where per-file reports go.
	// Default: os.Stderr
	Output io.Writer
}

func (o *Options) defaults() {
	if o.Output == nil {
		o.Output = os.Stderr
	}
}

// Push uploads every regular file under dataRoot to the bucket,
// skipping in-progress temp files and objects whose size already
// matches. It returns the number of files uploaded.
func Push(ctx context.Context, bucket *blob.Bucket, dataRoot string, opts Options) (int, error) {
	opts.defaults()

	uploaded := 0
	err := filepath.WalkDir(dataRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, ".part") {
			return nil
		}

		rel, err := filepath.Rel(dataRoot, path)
		if err != nil {
			return err
		}
		key := opts.Prefix + filepath.ToSlash(rel)

		fi, err := d.Info()
		if err != nil {
			return err
		}

		match, err := sizeMatches(ctx, bucket, key, fi.Size())
		if err != nil {
			return err
		}
		if match {
			return nil
		}

		if err := uploadFile(ctx, bucket, key, path); err != nil {
			return fmt.Errorf("upload %s: %w", rel, err)
		}
		fmt.Fprintf(opts.Output, "[rabpro] Pushed %s\n", key)
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, err
	}

	return uploaded, nil
}

// Pull materializes every object under the prefix into dataRoot,
// skipping files whose size already matches. Writes go through a temp
// file renamed into place. It returns the number of files downloaded.
func Pull(ctx context.Context, bucket *blob.Bucket, dataRoot string, opts Options) (int, error) {
	opts.defaults()

	downloaded := 0
	iter := bucket.List(&blob.ListOptions{Prefix: opts.Prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return downloaded, fmt.Errorf("list bucket: %w", err)
		}
		if obj.IsDir {
			continue
		}

		rel := strings.TrimPrefix(obj.Key, opts.Prefix)
		dest := filepath.Join(dataRoot, filepath.FromSlash(rel))

		if fi, err := os.Stat(dest); err == nil && fi.Size() == obj.Size {
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return downloaded, fmt.Errorf("create %s: %w", filepath.Dir(dest), err)
		}

		if err := downloadObject(ctx, bucket, obj.Key, dest); err != nil {
			return downloaded, fmt.Errorf("pull %s: %w", obj.Key, err)
		}
		fmt.Fprintf(opts.Output, "[rabpro] Pulled %s\n", obj.Key)
		downloaded++
	}

	return downloaded, nil
}

// sizeMatches reports whether key exists in the bucket with the given size.
func sizeMatches(ctx context.Context, bucket *blob.Bucket, key string, size int64) (bool, error) {
	attrs, err := bucket.Attributes(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return attrs.Size == size, nil
}

func uploadFile(ctx context.Context, bucket *blob.Bucket, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func downloadObject(ctx context.Context, bucket *blob.Bucket, key, dest string) error {
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return err
	}
	defer r.Close()

	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
