// Package diff computes generic field-level diffs between nested key/value
// trees. It carries no security semantics; regression detection is a
// separate, rule-based component.
package diff

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind classifies one diff entry.
type Kind string

const (
	KindAdded   Kind = "added"
	KindRemoved Kind = "removed"
	KindChanged Kind = "changed"
)

// Entry is one field-level difference between two trees.
type Entry struct {
	Path string `json:"path"`
	Kind Kind   `json:"kind"`
	Old  any    `json:"oldValue,omitempty"`
	New  any    `json:"newValue,omitempty"`
}

// Diff walks the union of keys at each level of a and b. Nested maps
// recurse with the path extended by ".key"; everything else is a leaf
// compared by canonical JSON serialization, so equality is value-level.
// Keys are visited in sorted order for stable output, but consumers must
// not rely on ordering beyond grouping by path.
func Diff(a, b map[string]any) []Entry {
	var entries []Entry
	walk("", a, b, &entries)
	return entries
}

// Trees converts any two serializable values into diffable trees.
// This is how typed snapshots are fed to Diff: through their canonical
// JSON shape, so diff paths match stored field names.
func Trees(a, b any) (map[string]any, map[string]any, error) {
	ta, err := toTree(a)
	if err != nil {
		return nil, nil, err
	}
	tb, err := toTree(b)
	if err != nil {
		return nil, nil, err
	}
	return ta, tb, nil
}

func toTree(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("diff: marshal tree: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("diff: value is not a key/value tree: %w", err)
	}
	return m, nil
}

func walk(prefix string, a, b map[string]any, entries *[]Entry) {
	keys := unionKeys(a, b)
	for _, key := range keys {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		av, inA := a[key]
		bv, inB := b[key]

		switch {
		case !inA && inB:
			*entries = append(*entries, Entry{Path: path, Kind: KindAdded, New: bv})
		case inA && !inB:
			*entries = append(*entries, Entry{Path: path, Kind: KindRemoved, Old: av})
		default:
			am, aIsMap := av.(map[string]any)
			bm, bIsMap := bv.(map[string]any)
			if aIsMap && bIsMap {
				walk(path, am, bm, entries)
				continue
			}
			if !leafEqual(av, bv) {
				*entries = append(*entries, Entry{Path: path, Kind: KindChanged, Old: av, New: bv})
			}
		}
	}
}

func unionKeys(a, b map[string]any) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		set[k] = struct{}{}
	}
	for k := range b {
		set[k] = struct{}{}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// leafEqual compares two leaves by canonical serialization. Arrays and
// mixed map/scalar pairs are opaque leaves here.
func leafEqual(a, b any) bool {
	return canonical(a) == canonical(b)
}

func canonical(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Only unexpected programming errors reach here; snapshots are
		// JSON-shaped by construction.
		panic(fmt.Sprintf("diff: unserializable leaf: %v", err))
	}
	return string(data)
}
