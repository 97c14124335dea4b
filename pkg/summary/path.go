package summary

import "strings"

// pathSeparator joins node names into tree paths on the wire.
const pathSeparator = "/"

// BuildTreePath joins path segments with "/", dropping empty segments and
// trimming leading/trailing separators from each one:
//
//	BuildTreePath("a", "", "b/", "/c") == "a/b/c"
func BuildTreePath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, pathSeparator)
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, pathSeparator)
}
