package objectstore_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/weberc2/simplefs/pkg/objectstore"
	"github.com/weberc2/simplefs/pkg/testsupport"
)

func TestGzipObjectStore(t *testing.T) {
	fake := testsupport.NewObjectStoreFake()
	objectStore := objectstore.GzipObjectStore{ObjectStore: fake}
	if err := objectStore.PutObject(
		"my-bucket",
		"my-key",
		strings.NewReader("my-data"),
	); err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}

	// the stored bytes are compressed
	raw, found := fake.Object("my-bucket", "my-key")
	if !found {
		t.Fatal("wanted object in the backing store; found none")
	}
	if bytes.Equal(raw, []byte("my-data")) {
		t.Fatal("wanted compressed data in the backing store; found plain")
	}

	body, err := objectStore.GetObject("my-bucket", "my-key")
	if err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("Unexpected err: %v", err)
	}
	if string(data) != "my-data" {
		t.Fatalf("wanted 'my-data'; found '%s'", data)
	}
}

func TestGzipObjectStoreNotFound(t *testing.T) {
	objectStore := objectstore.GzipObjectStore{
		ObjectStore: testsupport.NewObjectStoreFake(),
	}
	_, err := objectStore.GetObject("my-bucket", "missing")
	var notFound *objectstore.ObjectNotFoundErr
	if !errors.As(err, &notFound) {
		t.Fatalf("wanted `ObjectNotFoundErr`; found `%v`", err)
	}
	if notFound.Key != "missing" {
		t.Fatalf("wanted key 'missing'; found '%s'", notFound.Key)
	}
}
