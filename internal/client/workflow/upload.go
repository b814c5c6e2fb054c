package workflow

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
)

// Uploader stores one file and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// Opener opens a file to upload by name.
type Opener func(name string) (io.ReadCloser, error)

// OpenFile opens a local file.
func OpenFile(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// UploadAll uploads every file concurrently and returns their URLs in input
// order. If any upload fails the rest are canceled and only the first error
// is returned.
func UploadAll(ctx context.Context, up Uploader, open Opener, names []string) ([]string, error) {
	urls := make([]string, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			rc, err := open(name)
			if err != nil {
				return fmt.Errorf("open %s: %w", name, err)
			}
			defer rc.Close()

			u, err := up.Upload(ctx, name, rc)
			if err != nil {
				return fmt.Errorf("upload %s: %w", name, err)
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
