package testsupport

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/weberc2/simplefs/pkg/objectstore"
)

// ObjectStoreFake keeps snapshot objects in memory, one map per bucket.
// Stored bytes are copies, so callers can inspect exactly what an upload
// would have sent.
type ObjectStoreFake struct {
	buckets map[string]map[string][]byte
}

func NewObjectStoreFake() *ObjectStoreFake {
	return &ObjectStoreFake{buckets: map[string]map[string][]byte{}}
}

// Object returns the raw stored bytes for `key`.
func (fake *ObjectStoreFake) Object(bucket, key string) ([]byte, bool) {
	data, found := fake.buckets[bucket][key]
	return data, found
}

func (fake *ObjectStoreFake) PutObject(
	bucket string,
	key string,
	data io.ReadSeeker,
) error {
	contents, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("uploading `%s/%s`: %w", bucket, key, err)
	}
	objects, found := fake.buckets[bucket]
	if !found {
		objects = map[string][]byte{}
		fake.buckets[bucket] = objects
	}
	objects[key] = contents
	return nil
}

func (fake *ObjectStoreFake) GetObject(
	bucket string,
	key string,
) (io.ReadCloser, error) {
	data, found := fake.Object(bucket, key)
	if !found {
		return nil, &objectstore.ObjectNotFoundErr{Bucket: bucket, Key: key}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ListObjects returns matching keys in lexical order, as S3 does.
func (fake *ObjectStoreFake) ListObjects(
	bucket string,
	prefix string,
) ([]string, error) {
	var keys []string
	for key := range fake.buckets[bucket] {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (fake *ObjectStoreFake) DeleteObject(bucket, key string) error {
	if _, found := fake.Object(bucket, key); !found {
		return &objectstore.ObjectNotFoundErr{Bucket: bucket, Key: key}
	}
	delete(fake.buckets[bucket], key)
	return nil
}

var _ objectstore.ObjectStore = (*ObjectStoreFake)(nil)
