// Package snapshot copies disk images to and from an object store.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	errs "github.com/jmgilman/go/errors"
	"github.com/weberc2/simplefs/pkg/objectstore"
)

const suffix = ".img.gz"

// Snapshots stores images as gzip-compressed objects under
// `<slug(name)>/<uuid>.img.gz` in a single bucket.
type Snapshots struct {
	Store  objectstore.ObjectStore
	Bucket string
}

func New(store objectstore.ObjectStore, bucket string) *Snapshots {
	return &Snapshots{
		Store:  &objectstore.GzipObjectStore{ObjectStore: store},
		Bucket: bucket,
	}
}

func prefix(name string) string { return slug.Make(name) + "/" }

// Push uploads the image and returns the key it was stored under.
func (s *Snapshots) Push(name string, image io.ReadSeeker) (string, error) {
	key := prefix(name) + uuid.NewString() + suffix
	if err := s.Store.PutObject(s.Bucket, key, image); err != nil {
		return "", errs.Wrapf(
			err,
			errs.CodeNetwork,
			"pushing snapshot of `%s`",
			name,
		)
	}
	return key, nil
}

// Pull downloads the snapshot at `key` into `w`.
func (s *Snapshots) Pull(key string, w io.Writer) (int64, error) {
	body, err := s.Store.GetObject(s.Bucket, key)
	if err != nil {
		var notFound *objectstore.ObjectNotFoundErr
		if errors.As(err, &notFound) {
			return 0, errs.Wrapf(
				err,
				errs.CodeNotFound,
				"pulling snapshot `%s`",
				key,
			)
		}
		return 0, errs.Wrapf(err, errs.CodeNetwork, "pulling snapshot `%s`", key)
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("pulling snapshot `%s`: %w", key, err)
	}
	return n, nil
}

// Delete removes the snapshot at `key`.
func (s *Snapshots) Delete(key string) error {
	if err := s.Store.DeleteObject(s.Bucket, key); err != nil {
		var notFound *objectstore.ObjectNotFoundErr
		if errors.As(err, &notFound) {
			return errs.Wrapf(
				err,
				errs.CodeNotFound,
				"deleting snapshot `%s`",
				key,
			)
		}
		return errs.Wrapf(err, errs.CodeNetwork, "deleting snapshot `%s`", key)
	}
	return nil
}

// List returns the keys of every snapshot pushed under `name`.
func (s *Snapshots) List(name string) ([]string, error) {
	keys, err := s.Store.ListObjects(s.Bucket, prefix(name))
	if err != nil {
		return nil, errs.Wrapf(
			err,
			errs.CodeNetwork,
			"listing snapshots of `%s`",
			name,
		)
	}
	out := keys[:0]
	for _, key := range keys {
		if strings.HasSuffix(key, suffix) {
			out = append(out, key)
		}
	}
	return out, nil
}
