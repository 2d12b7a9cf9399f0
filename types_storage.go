package main

import (
	"context"
	"io"
)

// SiteStorer is the object storage side of a deploy.
type SiteStorer interface {
	EnsureBucket(ctx context.Context, bucket string, website WebsiteConfig) error
	ListObjects(ctx context.Context, bucket string) ([]RemoteObject, error)
	PutObject(ctx context.Context, bucket string, key string, body io.ReadSeeker, headers map[string]string) error
	DeleteObject(ctx context.Context, bucket string, key string) error
}

// CDNInvalidator posts cache invalidations for a distribution.
type CDNInvalidator interface {
	Invalidate(ctx context.Context, distributionID string, paths []string) error
}
