package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger, _ := zap.NewDevelopment()
	sugar = logger.Sugar()
	os.Exit(m.Run())
}

type mockSiteStorer struct {
	ensureBucketFunc func(ctx context.Context, bucket string, website WebsiteConfig) error
	listObjectsFunc  func(ctx context.Context, bucket string) ([]RemoteObject, error)
	putObjectFunc    func(ctx context.Context, bucket string, key string, body io.ReadSeeker, headers map[string]string) error
	deleteObjectFunc func(ctx context.Context, bucket string, key string) error
}

func (m mockSiteStorer) EnsureBucket(ctx context.Context, bucket string, website WebsiteConfig) error {
	if m.ensureBucketFunc == nil {
		return nil
	}
	return m.ensureBucketFunc(ctx, bucket, website)
}

func (m mockSiteStorer) ListObjects(ctx context.Context, bucket string) ([]RemoteObject, error) {
	if m.listObjectsFunc == nil {
		return nil, nil
	}
	return m.listObjectsFunc(ctx, bucket)
}

func (m mockSiteStorer) PutObject(ctx context.Context, bucket string, key string, body io.ReadSeeker, headers map[string]string) error {
	if m.putObjectFunc == nil {
		return nil
	}
	return m.putObjectFunc(ctx, bucket, key, body, headers)
}

func (m mockSiteStorer) DeleteObject(ctx context.Context, bucket string, key string) error {
	if m.deleteObjectFunc == nil {
		return nil
	}
	return m.deleteObjectFunc(ctx, bucket, key)
}

type mockCDNInvalidator struct {
	invalidateFunc func(ctx context.Context, distributionID string, paths []string) error
}

func (m mockCDNInvalidator) Invalidate(ctx context.Context, distributionID string, paths []string) error {
	return m.invalidateFunc(ctx, distributionID, paths)
}

// recordingStorer serves a fixed listing and records every mutation.
type recordingStorer struct {
	listing []RemoteObject

	mu       sync.Mutex
	ensured  []string
	puts     map[string]string
	headers  map[string]map[string]string
	deletes  []string
	putErrOn map[string]error
}

func newRecordingStorer(listing []RemoteObject) *recordingStorer {
	return &recordingStorer{
		listing: listing,
		puts:    make(map[string]string),
		headers: make(map[string]map[string]string),
	}
}

func (r *recordingStorer) EnsureBucket(ctx context.Context, bucket string, website WebsiteConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensured = append(r.ensured, bucket)
	return nil
}

func (r *recordingStorer) ListObjects(ctx context.Context, bucket string) ([]RemoteObject, error) {
	return r.listing, nil
}

func (r *recordingStorer) PutObject(ctx context.Context, bucket string, key string, body io.ReadSeeker, headers map[string]string) error {
	if err, ok := r.putErrOn[key]; ok {
		return err
	}
	content, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts[key] = string(content)
	r.headers[key] = headers
	return nil
}

func (r *recordingStorer) DeleteObject(ctx context.Context, bucket string, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, key)
	return nil
}

func (r *recordingStorer) putKeys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var keys []string
	for k := range r.puts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeSiteFiles lays out files (slash-separated relative path -> content)
// under a fresh temporary directory and returns it.
func writeSiteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		fullPath := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
	return root
}

func testSite(root string, opts ...SiteOption) *Site {
	base := []SiteOption{
		WithPath(root),
		WithAccessKeyID("AKIDEXAMPLE"),
		WithSecretKey("secret"),
	}
	return NewSite("www.example.com", append(base, opts...)...)
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
