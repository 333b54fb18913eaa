package imagehost

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
)

type fakeObjectStore struct {
	putName    string
	putType    string
	putSize    int64
	removed    []string
	putErr     error
	removeErr  error
}

func (f *fakeObjectStore) PutObject(_ context.Context, _, objectName string, _ io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.putName = objectName
	f.putType = opts.ContentType
	f.putSize = objectSize
	return minio.UploadInfo{Key: objectName}, f.putErr
}

func (f *fakeObjectStore) RemoveObject(_ context.Context, _, objectName string, _ minio.RemoveObjectOptions) error {
	f.removed = append(f.removed, objectName)
	return f.removeErr
}

func TestMinioHostUpload(t *testing.T) {
	store := &fakeObjectStore{}
	host := &MinioHost{bucketName: "gallery", publicBaseURL: "https://img.example.com/gallery", client: store}

	result, err := host.Upload(context.Background(), "photo.jpg", "image/jpeg", strings.NewReader("data"), 4)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if !strings.HasSuffix(store.putName, ".jpg") {
		t.Fatalf("expected object name to keep extension, got %q", store.putName)
	}
	if store.putType != "image/jpeg" {
		t.Fatalf("expected content type to pass through, got %q", store.putType)
	}
	if result.PublicID != store.putName {
		t.Fatalf("expected public id %q, got %q", store.putName, result.PublicID)
	}
	if result.URL != "https://img.example.com/gallery/"+store.putName {
		t.Fatalf("unexpected url %q", result.URL)
	}
}

func TestMinioHostDestroy(t *testing.T) {
	store := &fakeObjectStore{}
	host := &MinioHost{bucketName: "gallery", publicBaseURL: "https://img.example.com/gallery", client: store}

	if err := host.Destroy(context.Background(), "20240101-abc.jpg"); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
	if len(store.removed) != 1 || store.removed[0] != "20240101-abc.jpg" {
		t.Fatalf("expected object to be removed, got %v", store.removed)
	}
}
