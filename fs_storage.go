package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FSSiteStorage is a SiteStorer that publishes into a local directory, one
// subdirectory per bucket, e.g. a web server document root.
type FSSiteStorage struct {
	root string
}

func NewFSSiteStorage(root string) FSSiteStorage {
	return FSSiteStorage{root: root}
}

func (s FSSiteStorage) bucketDir(bucket string) string {
	return filepath.Join(s.root, bucket)
}

// for filesystem storage the website configuration is written next to the bucket directory
func (s FSSiteStorage) EnsureBucket(ctx context.Context, bucket string, website WebsiteConfig) error {
	dirPath := s.bucketDir(bucket)
	sugar.Infof("using bucket: %s", dirPath)
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		sugar.Infof("creating new bucket directory %s", dirPath)
	}
	err := os.MkdirAll(dirPath, os.FileMode(0755))
	if err != nil {
		return &RemoteError{Op: "create bucket", Key: bucket, Err: err}
	}

	websiteJson, err := json.MarshalIndent(website, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling website JSON: %w", err)
	}
	err = os.WriteFile(s.websiteConfigPath(bucket), websiteJson, os.FileMode(0644))
	if err != nil {
		return &RemoteError{Op: "put bucket website", Key: bucket, Err: err}
	}
	return nil
}

func (s FSSiteStorage) websiteConfigPath(bucket string) string {
	return filepath.Join(s.root, fmt.Sprintf(".%s.website.json", bucket))
}

// ListObjects returns the bucket's files sorted by key, fingerprinted the same
// way as the local index.
func (s FSSiteStorage) ListObjects(ctx context.Context, bucket string) ([]RemoteObject, error) {
	dirPath := s.bucketDir(bucket)
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return nil, &RemoteError{Op: "list objects", Key: bucket, Err: fmt.Errorf("%w: %w", ErrBucketNotFound, err)}
	}
	var objects []RemoteObject
	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dirPath, path)
		if err != nil {
			return err
		}
		sum, err := fileMD5(path)
		if err != nil {
			return err
		}
		objects = append(objects, RemoteObject{Path: filepath.ToSlash(rel), Fingerprint: sum})
		return nil
	})
	if err != nil {
		return nil, &RemoteError{Op: "list objects", Key: bucket, Err: err}
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Path < objects[j].Path })
	return objects, nil
}

// PutObject writes body under the bucket directory. Headers have no meaning on
// a plain filesystem and are ignored.
func (s FSSiteStorage) PutObject(ctx context.Context, bucket string, key string, body io.ReadSeeker, headers map[string]string) error {
	fullPath, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	err = os.MkdirAll(filepath.Dir(fullPath), os.FileMode(0755))
	if err != nil {
		return &RemoteError{Op: "put", Key: key, Err: err}
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(0644))
	if err != nil {
		return &RemoteError{Op: "put", Key: key, Err: err}
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return &RemoteError{Op: "put", Key: key, Err: err}
	}
	if err := f.Close(); err != nil {
		return &RemoteError{Op: "put", Key: key, Err: err}
	}
	return nil
}

func (s FSSiteStorage) DeleteObject(ctx context.Context, bucket string, key string) error {
	fullPath, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return &RemoteError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// objectPath refuses keys that would escape the bucket directory.
func (s FSSiteStorage) objectPath(bucket string, key string) (string, error) {
	dirPath := s.bucketDir(bucket)
	fullPath := filepath.Join(dirPath, filepath.FromSlash(key))
	if fullPath != dirPath && !strings.HasPrefix(fullPath, dirPath+string(filepath.Separator)) {
		return "", &RemoteError{Op: "resolve", Key: key, Err: fmt.Errorf("key escapes bucket directory")}
	}
	return fullPath, nil
}

var _ SiteStorer = FSSiteStorage{}
