// key.go: deterministic cache key construction with language isolation
package contentcache

import (
	"sort"
	"strings"
)

// ResourceKind names one cacheable resource family. Staleness and resolver
// deadlines are configured per kind.
type ResourceKind string

const (
	ResourceCities    ResourceKind = "cities"
	ResourceHeritage  ResourceKind = "heritage"
	ResourceLanguages ResourceKind = "languages"
	ResourceImages    ResourceKind = "images"
)

// Key builds a deterministic cache key from a resource kind, a filter set
// and a language code. Filters are normalized by sorting their names, so two
// semantically identical requests always map to the same key, and the
// language segment guarantees entries for different languages never satisfy
// each other's lookups.
func Key(kind ResourceKind, filters map[string]string, languageCode string) string {
	var sb strings.Builder
	sb.WriteString(string(kind))
	sb.WriteByte('|')
	sb.WriteString(languageCode)

	if len(filters) > 0 {
		names := make([]string, 0, len(filters))
		for name, value := range filters {
			if value == "" {
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteByte('|')
			sb.WriteString(name)
			sb.WriteByte('=')
			sb.WriteString(filters[name])
		}
	}
	return sb.String()
}

// Prefix returns the eviction prefix covering every key of a resource kind.
func Prefix(kind ResourceKind) string {
	return string(kind) + "|"
}
