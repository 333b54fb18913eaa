package imagehost

import (
	"context"
	"io"
)

// Upload 描述一次成功上传后图床侧的对象信息。
type Upload struct {
	PublicID string
	URL      string
}

// Host is the image-hosting boundary: store an object, or release one by its id.
type Host interface {
	Upload(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (Upload, error)
	Destroy(ctx context.Context, publicID string) error
}
