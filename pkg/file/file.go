package file

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Source opens files for reading.
type Source interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

const s3Scheme = "s3://"

// Location is a parsed file reference.
type Location struct {
	Bucket string // empty for local paths
	Key    string
}

// IsS3 reports whether the location points into a bucket.
func (l Location) IsS3() bool {
	return l.Bucket != ""
}

func (l Location) String() string {
	if l.IsS3() {
		return s3Scheme + l.Bucket + "/" + l.Key
	}
	return l.Key
}

// ParseLocation splits "s3://bucket/key" references. Any other value is
// returned as a local path.
func ParseLocation(raw string) (Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{}, fmt.Errorf("%w: empty location", ErrInvalidPath)
	}
	if !strings.HasPrefix(raw, s3Scheme) {
		return Location{Key: raw}, nil
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(raw, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, fmt.Errorf("%w: %s", ErrInvalidPath, raw)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// Router dispatches Open calls to a local source or to the S3 source that
// serves the referenced bucket.
type Router struct {
	local   Source
	buckets map[string]*S3Source
}

// NewRouter creates a router. local may be nil when only S3 locations are expected.
func NewRouter(local Source, buckets ...*S3Source) *Router {
	r := &Router{
		local:   local,
		buckets: make(map[string]*S3Source, len(buckets)),
	}
	for _, b := range buckets {
		if b != nil {
			r.buckets[b.Bucket()] = b
		}
	}
	return r
}

func (r *Router) Open(ctx context.Context, raw string) (io.ReadCloser, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return nil, err
	}

	if !loc.IsS3() {
		if r.local == nil {
			return nil, fmt.Errorf("%w: local paths are not enabled", ErrInvalidPath)
		}
		return r.local.Open(ctx, loc.Key)
	}

	src, ok := r.buckets[loc.Bucket]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSourceForBucket, loc.Bucket)
	}
	return src.Open(ctx, loc.Key)
}
