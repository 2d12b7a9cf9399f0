package main

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/mod/sumdb/dirhash"
)

// BuildLocalIndex walks root and fingerprints every regular file beneath it.
// Any unreadable entry aborts the walk and no partial index is returned.
func BuildLocalIndex(root string) (LocalIndex, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, &IndexError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &IndexError{Path: root, Err: fmt.Errorf("not a directory")}
	}
	// WalkDir does not follow a symlinked root
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, &IndexError{Path: root, Err: err}
	}
	root = resolved

	index := make(LocalIndex)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return &IndexError{Path: path, Err: walkErr}
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				return &IndexError{Path: path, Err: err}
			}
			if target.IsDir() {
				return nil
			}
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return &IndexError{Path: path, Err: err}
		}
		sum, err := fileMD5(path)
		if err != nil {
			return &IndexError{Path: path, Err: err}
		}
		index[filepath.ToSlash(rel)] = sum
		return nil
	})
	if err != nil {
		return nil, err
	}

	return index, nil
}

func fileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := md5.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// SiteDigest is the h1: dirhash of the files in index, read from under root,
// used to identify exactly what a deploy shipped.
func SiteDigest(root string, index LocalIndex) (string, error) {
	files := make([]string, 0, len(index))
	for path := range index {
		files = append(files, path)
	}
	return dirhash.Hash1(files, func(name string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(root, filepath.FromSlash(name)))
	})
}
