// Package scheme classifies destination paths by storage backend and
// provides the string transforms shared by the storage and report layers.
package scheme

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Scheme tags the storage backend a path or URI belongs to.
type Scheme string

const (
	Local    Scheme = "local"
	S3       Scheme = "s3"
	GCS      Scheme = "gcs"
	Azure    Scheme = "azure"
	Platform Scheme = "platform"
)

const platformPrefix = "platform://"

// strippedPlatformRe matches platform URIs whose scheme prefix was removed
// by upstream path normalization: "<tenant-id>.<account-name>/<rest>".
// A local directory literally named like "123.acct/..." will match too and
// be misrouted to the platform backend; callers cannot distinguish the two.
var strippedPlatformRe = regexp.MustCompile(`^\d+\.[A-Za-z_][A-Za-z0-9_]*/`)

// Classified is the result of classifying one path or URI.
type Classified struct {
	Scheme     Scheme
	Normalized string
}

// Classify maps a path or URI string to its storage scheme. Stripped
// platform URIs are recognized by shape and re-prefixed so the report
// records an addressable URI rather than a bare internal path string.
func Classify(pathOrURI string) Classified {
	switch {
	case strings.HasPrefix(pathOrURI, "s3://"):
		return Classified{Scheme: S3, Normalized: pathOrURI}
	case strings.HasPrefix(pathOrURI, "gs://"):
		return Classified{Scheme: GCS, Normalized: pathOrURI}
	case strings.HasPrefix(pathOrURI, "abfs://"), strings.HasPrefix(pathOrURI, "azure://"):
		return Classified{Scheme: Azure, Normalized: pathOrURI}
	case strings.HasPrefix(pathOrURI, platformPrefix):
		return Classified{Scheme: Platform, Normalized: pathOrURI}
	case strippedPlatformRe.MatchString(pathOrURI):
		return Classified{Scheme: Platform, Normalized: platformPrefix + pathOrURI}
	default:
		return Classified{Scheme: Local, Normalized: filepath.Clean(pathOrURI)}
	}
}

// HasScheme reports whether the string carries an explicit URI scheme
// recognized by Classify (stripped platform URIs do not count).
func HasScheme(s string) bool {
	for _, p := range []string{"s3://", "gs://", "abfs://", "azure://", platformPrefix} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// NormalizeSource canonicalizes a work-directory source path for use as a
// correlator key. Keys are compared as strings, not as OS path handles, so
// two spellings of the same file must normalize identically.
func NormalizeSource(p string) string {
	if HasScheme(p) {
		return p
	}
	return filepath.Clean(p)
}

// SplitObjectURI splits an object-storage URI into bucket/container and
// key. The scheme prefix must be present.
func SplitObjectURI(uri string) (bucket, key string, err error) {
	idx := strings.Index(uri, "://")
	if idx < 0 {
		return "", "", fmt.Errorf("not an object URI: %q", uri)
	}
	rest := uri[idx+3:]
	slash := strings.Index(rest, "/")
	if slash < 0 {
		return rest, "", nil
	}
	return rest[:slash], rest[slash+1:], nil
}

// Join appends a file name to a base directory or URI, preserving the
// scheme. Object URIs always use forward slashes regardless of OS.
func Join(base, name string) string {
	c := Classify(base)
	if c.Scheme == Local {
		return filepath.Join(base, name)
	}
	return strings.TrimRight(c.Normalized, "/") + "/" + name
}
