package report

import (
	"strings"

	"github.com/theiagen/nf-theia/pkg/scheme"
)

// commonRoots reduces the distinct publish directories of a run to the
// smallest set of base locations for the collated report: one longest
// common prefix per scheme, trimmed to a full path segment. When the only
// common ancestor within a scheme is the filesystem root (or, for object
// URIs, the bare scheme), there is no meaningful base and every directory
// in that scheme gets its own copy.
func commonRoots(dirs []string) []string {
	var distinct []string
	seen := make(map[string]struct{})
	bySch := make(map[scheme.Scheme][]string)
	var schOrder []scheme.Scheme

	for _, d := range dirs {
		c := scheme.Classify(d)
		if _, dup := seen[c.Normalized]; dup {
			continue
		}
		seen[c.Normalized] = struct{}{}
		distinct = append(distinct, c.Normalized)
		if _, ok := bySch[c.Scheme]; !ok {
			schOrder = append(schOrder, c.Scheme)
		}
		bySch[c.Scheme] = append(bySch[c.Scheme], c.Normalized)
	}

	var roots []string
	for _, sch := range schOrder {
		group := bySch[sch]
		root, ok := commonDirPrefix(group)
		if ok {
			roots = append(roots, root)
		} else {
			roots = append(roots, group...)
		}
	}
	return roots
}

// commonDirPrefix computes the segment-wise longest common prefix of a
// group of same-scheme directories. ok is false when the prefix is not a
// meaningful base location.
func commonDirPrefix(dirs []string) (string, bool) {
	if len(dirs) == 0 {
		return "", false
	}
	common := strings.Split(dirs[0], "/")
	for _, d := range dirs[1:] {
		segs := strings.Split(d, "/")
		if len(segs) < len(common) {
			common = common[:len(segs)]
		}
		for i := range common {
			if common[i] != segs[i] {
				common = common[:i]
				break
			}
		}
	}
	root := strings.Join(common, "/")
	if scheme.HasScheme(dirs[0]) {
		// need at least scheme://bucket
		if len(common) < 3 {
			return "", false
		}
		return root, true
	}
	// a bare "/" or empty prefix is not a usable base
	if root == "" || root == "/" {
		return "", false
	}
	return root, true
}
