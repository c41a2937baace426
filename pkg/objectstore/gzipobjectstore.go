package objectstore

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// GzipObjectStore stores disk images gzip-compressed. Images are mostly
// zero blocks, so snapshots shrink to a fraction of the disk size.
type GzipObjectStore struct {
	ObjectStore

	// Level is a compress/gzip level; zero means gzip.BestCompression.
	Level int
}

func (store *GzipObjectStore) level() int {
	if store.Level == 0 {
		return gzip.BestCompression
	}
	return store.Level
}

func (store *GzipObjectStore) PutObject(
	bucket string,
	key string,
	image io.ReadSeeker,
) error {
	var compressed bytes.Buffer
	w, err := gzip.NewWriterLevel(&compressed, store.level())
	if err != nil {
		return fmt.Errorf("compressing image `%s`: %w", key, err)
	}
	w.Name = key
	if _, err := io.Copy(w, image); err != nil {
		return fmt.Errorf("compressing image `%s`: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("compressing image `%s`: %w", key, err)
	}
	return store.ObjectStore.PutObject(
		bucket,
		key,
		bytes.NewReader(compressed.Bytes()),
	)
}

// GetObject returns the decompressed image. Closing it closes the
// underlying object body.
func (store *GzipObjectStore) GetObject(
	bucket string,
	key string,
) (io.ReadCloser, error) {
	body, err := store.ObjectStore.GetObject(bucket, key)
	if err != nil {
		return nil, fmt.Errorf("fetching image `%s`: %w", key, err)
	}
	r, err := gzip.NewReader(body)
	if err != nil {
		body.Close()
		return nil, fmt.Errorf("decompressing image `%s`: %w", key, err)
	}
	return &gzipBody{Reader: r, body: body}, nil
}

type gzipBody struct {
	*gzip.Reader
	body io.ReadCloser
}

func (gb *gzipBody) Close() error {
	err := gb.Reader.Close()
	if bodyErr := gb.body.Close(); err == nil {
		err = bodyErr
	}
	return err
}
