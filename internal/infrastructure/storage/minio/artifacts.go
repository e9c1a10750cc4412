package minio

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/errors"
)

// Artifact kinds, used as the second path segment of object keys.
const (
	KindTestSet  = "test-sets"
	KindReport   = "reports"
	KindRAGCheck = "ragcheck"
)

// UploadResult describes a stored object.
type UploadResult struct {
	Bucket     string    `json:"bucket"`
	ObjectKey  string    `json:"object_key"`
	ETag       string    `json:"etag"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ObjectKey builds "<prefix>/<kind>/<UTC timestamp>-<name>".
func (c *MinIOClient) ObjectKey(kind, name string) string {
	stamp := c.now().UTC().Format("20060102T150405Z")
	return path.Join(c.config.Prefix, kind, stamp+"-"+path.Base(filepath.ToSlash(name)))
}

// ContentTypeFor picks a content type from the file extension.
func ContentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jsonl", ".ndjson":
		return "application/x-ndjson"
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}

// UploadFile stores the local file under a timestamped key of the given kind.
func (c *MinIOClient) UploadFile(ctx context.Context, kind, localPath string, metadata map[string]string) (*UploadResult, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeFatalIO, "open artifact %q", localPath)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeFatalIO, "stat artifact %q", localPath)
	}

	key := c.ObjectKey(kind, localPath)
	info, err := c.api.PutObject(ctx, c.config.Bucket, key, f, st.Size(), minio.PutObjectOptions{
		ContentType:  ContentTypeFor(localPath),
		UserMetadata: metadata,
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeStorageError, "upload %q", localPath)
	}
	return c.uploaded(key, info), nil
}

// UploadBytes stores data under a timestamped key of the given kind.
func (c *MinIOClient) UploadBytes(ctx context.Context, kind, name string, data []byte, metadata map[string]string) (*UploadResult, error) {
	key := c.ObjectKey(kind, name)
	info, err := c.api.PutObject(ctx, c.config.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  ContentTypeFor(name),
		UserMetadata: metadata,
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeStorageError, "upload %q", name)
	}
	return c.uploaded(key, info), nil
}

// Exists reports whether key is present in the bucket.
func (c *MinIOClient) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.api.StatObject(ctx, c.config.Bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, errors.Wrapf(err, errors.ErrCodeStorageError, "stat %q", key)
}

func (c *MinIOClient) uploaded(key string, info minio.UploadInfo) *UploadResult {
	res := &UploadResult{
		Bucket:     c.config.Bucket,
		ObjectKey:  key,
		ETag:       info.ETag,
		Size:       info.Size,
		UploadedAt: c.now().UTC(),
	}
	c.logger.Info("artifact uploaded",
		logging.String("bucket", res.Bucket),
		logging.String("key", key),
		logging.Int64("size", res.Size))
	return res
}

//Personal.AI order the ending
