package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildLocalIndex(t *testing.T) {
	root := writeSiteFiles(t, map[string]string{
		"index.html":      "hello",
		"blog/index.html": "",
		"css/a/b/c.css":   "body{}",
	})
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatal(err)
	}

	index, err := BuildLocalIndex(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := LocalIndex{
		"index.html":      "5d41402abc4b2a76b9719d911017c592",
		"blog/index.html": "d41d8cd98f00b204e9800998ecf8427e",
	}
	for path, sum := range want {
		if index[path] != sum {
			t.Errorf("index[%q] = %q, want %q", path, index[path], sum)
		}
	}
	if _, ok := index["css/a/b/c.css"]; !ok {
		t.Errorf("nested file missing from index: %v", index)
	}
	if len(index) != 3 {
		t.Errorf("expected 3 entries, got %d: %v", len(index), index)
	}
	for path := range index {
		if strings.HasPrefix(path, "empty") {
			t.Errorf("directory %q should not be indexed", path)
		}
	}
}

func TestBuildLocalIndexEmptyDir(t *testing.T) {
	index, err := BuildLocalIndex(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(index) != 0 {
		t.Errorf("expected empty index, got %v", index)
	}
}

func TestBuildLocalIndexMissingRoot(t *testing.T) {
	_, err := BuildLocalIndex(filepath.Join(t.TempDir(), "nope"))
	var indexErr *IndexError
	if !errors.As(err, &indexErr) {
		t.Fatalf("expected IndexError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestBuildLocalIndexRootIsFile(t *testing.T) {
	root := writeSiteFiles(t, map[string]string{"f": "x"})
	_, err := BuildLocalIndex(filepath.Join(root, "f"))
	var indexErr *IndexError
	if !errors.As(err, &indexErr) {
		t.Fatalf("expected IndexError, got %v", err)
	}
}

func TestBuildLocalIndexUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := writeSiteFiles(t, map[string]string{"secret.txt": "x", "ok.txt": "y"})
	if err := os.Chmod(filepath.Join(root, "secret.txt"), 0000); err != nil {
		t.Fatal(err)
	}

	index, err := BuildLocalIndex(root)
	if err == nil {
		t.Fatal("expected error for unreadable file")
	}
	if index != nil {
		t.Errorf("expected no partial index, got %v", index)
	}
}

func TestBuildLocalIndexSkipsSymlinkedDirs(t *testing.T) {
	root := writeSiteFiles(t, map[string]string{"real/page.html": "p"})
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	index, err := BuildLocalIndex(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := index["link"]; ok {
		t.Errorf("symlinked directory should not be indexed: %v", index)
	}
	if _, ok := index["real/page.html"]; !ok {
		t.Errorf("expected real/page.html in %v", index)
	}
}

func TestBuildLocalIndexSymlinkedRoot(t *testing.T) {
	release := writeSiteFiles(t, map[string]string{"index.html": "hello", "a.txt": "a"})
	current := filepath.Join(t.TempDir(), "current")
	if err := os.Symlink(release, current); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	index, err := BuildLocalIndex(current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(index) != 2 || index["index.html"] != "5d41402abc4b2a76b9719d911017c592" {
		t.Errorf("index = %v, want both files under the link target", index)
	}

	digest, err := SiteDigest(current, index)
	if err != nil {
		t.Fatalf("digest through symlinked root: %v", err)
	}
	direct, err := SiteDigest(release, index)
	if err != nil {
		t.Fatal(err)
	}
	if digest != direct {
		t.Errorf("digest = %s, want %s", digest, direct)
	}
}

func TestSiteDigest(t *testing.T) {
	root := writeSiteFiles(t, map[string]string{"index.html": "hello", "css/site.css": "body{}"})
	index, err := BuildLocalIndex(root)
	if err != nil {
		t.Fatal(err)
	}
	first, err := SiteDigest(root, index)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(first, "h1:") {
		t.Errorf("digest %q lacks h1: prefix", first)
	}

	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("changed"), 0644); err != nil {
		t.Fatal(err)
	}
	second, err := SiteDigest(root, index)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Error("digest did not change with content")
	}
}

func TestSiteDigestFollowsSymlinkedFiles(t *testing.T) {
	root := writeSiteFiles(t, map[string]string{"real.txt": "r"})
	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "alias.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	index, err := BuildLocalIndex(root)
	if err != nil {
		t.Fatal(err)
	}
	if index["alias.txt"] != index["real.txt"] {
		t.Errorf("index = %v, want alias.txt fingerprinted as its target", index)
	}
	if _, err := SiteDigest(root, index); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
