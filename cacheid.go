package catalog

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// FontPrefix is the reserved metadata-key prefix the merge phase strips
// before emission (spec §4.4 step (a)).
const FontPrefix = "Font"

// CacheIDMetadataKey is the metadata key an App's coarse-grained,
// package-level cache key is stored under (spec §4.7 step 10, §8 P6).
const CacheIDMetadataKey = "X-CreaterepoAsCacheID"

// CacheID computes the opaque per-package cache key: sha1 of the package's
// resolved absolute path concatenated with its size and modification time,
// the same three-part recipe spec §4.7 step 10 names.
//
// This is coarse-grained by design (spec §1 Non-goals): any change to the
// file at all — not just a change relevant to the catalog — invalidates the
// cache entry.
func CacheID(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", NewError("CacheID", ErrIO, path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		real = abs
	}
	fi, err := os.Stat(real)
	if err != nil {
		return "", NewError("CacheID", ErrIO, path, err)
	}
	h := sha1.New()
	fmt.Fprintf(h, "%s%d%d", real, fi.Size(), fi.ModTime().UnixNano())
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ScreenshotBasename computes the content-addressed basename used for every
// screenshot resolution: "<app-id>-<md5-of-source-bytes>.png" (spec §3
// Screenshot, §8 P4).
func ScreenshotBasename(appID string, sourceBytes []byte) string {
	sum := md5.Sum(sourceBytes)
	return fmt.Sprintf("%s-%x.png", appID, sum)
}
