package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/theiagen/nf-theia/pkg/models"
	"github.com/theiagen/nf-theia/pkg/scheme"
)

// flatParamMarker is the "<origIndex:subIndex>" marker the host engine
// embeds in a flattened parameter's description when it decomposes a
// multi-value output declaration.
var flatParamMarker = regexp.MustCompile(`<(\d+):(\d+)>`)

// GroupOutputs partitions a task's produced output values into named
// groups, one per output declaration. Declared logical names are used
// verbatim; undeclared outputs get "output_<index>" synthesized from the
// declaration's position in the process signature. Only path-shaped
// values are treated as files; scalars embedded in tuple outputs are
// dropped. Group order follows declaration order.
func GroupOutputs(decls []models.OutputDecl, values []models.OutputValue) *models.OutputMap {
	groups := models.NewOutputMap()

	// Seed groups from declarations so every declared output appears,
	// even when it produced no files, and order is the signature order.
	names := make(map[int]string, len(decls))
	for _, d := range decls {
		name := groupName(d)
		names[d.Index] = name
		groups.Add(name)
	}

	for flatPos, v := range values {
		idx := v.DeclIndex
		if idx < 0 {
			idx = markerIndex(v.Description)
		}
		var name string
		switch {
		case idx >= 0:
			if n, ok := names[idx]; ok {
				name = n
			} else {
				// declarations unavailable for this index
				name = fmt.Sprintf("output_%d", idx)
			}
		default:
			// recorrelation impossible, fall back to the flattened position
			name = fmt.Sprintf("output_%d", flatPos)
		}
		g := groups.Add(name)
		for _, val := range v.Values {
			if isPathShaped(val) {
				g.AddWorkDirFile(val)
			}
		}
	}
	return groups
}

// groupName resolves the report key for one declaration.
func groupName(d models.OutputDecl) string {
	if d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("output_%d", d.Index)
}

// markerIndex extracts the original declaration index from an embedded
// "<origIndex:subIndex>" marker, -1 when absent.
func markerIndex(description string) int {
	m := flatParamMarker.FindStringSubmatch(description)
	if m == nil {
		return -1
	}
	idx, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return idx
}

// isPathShaped reports whether a flattened output value looks like a file
// location rather than a scalar. Work-dir files arrive as absolute paths,
// published values may carry a URI scheme.
func isPathShaped(v string) bool {
	if v == "" {
		return false
	}
	if scheme.HasScheme(v) {
		return true
	}
	return strings.ContainsAny(v, `/\`)
}
