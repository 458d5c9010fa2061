package khobor

import (
	"slices"
)

// Rules describes how one site's embedded JSON payload marks its story
// nodes. The payloads mix objects and arrays to arbitrary depth with no
// fixed schema; a single discriminant key tells collections and stories
// apart.
type Rules struct {
	// TypeKey is the discriminant field, e.g. "type".
	TypeKey string
	// CollectionType is the discriminant value marking a node whose
	// ItemsKey field holds further collections and stories.
	CollectionType string
	// ItemsKey names a collection's child list, e.g. "items".
	ItemsKey string
	// StoryType is the discriminant value marking a story leaf.
	StoryType string
	// StoryKey optionally names a wrapper field holding the real story
	// object. Leaves without the wrapper are used as-is.
	StoryKey string
}

// FindStoryNodes walks a decoded JSON value depth-first and returns every
// story leaf in pre-order. A collection node expands to its items only:
// its other fields are never scanned, and it is never itself a leaf. A
// story node is unwrapped one level and yielded, and its fields are then
// scanned too, since stories can embed related stories. Every other
// object is scanned field by field. The same entity can appear on several
// paths through the tree, so callers dedupe downstream.
func (r Rules) FindStoryNodes(node any) []map[string]any {
	switch n := node.(type) {
	case map[string]any:
		typ, _ := n[r.TypeKey].(string)
		if items, ok := n[r.ItemsKey]; ok && typ == r.CollectionType {
			return r.FindStoryNodes(items)
		}

		var leaves []map[string]any
		if typ == r.StoryType {
			leaf := n
			if wrapped, ok := n[r.StoryKey].(map[string]any); ok {
				leaf = wrapped
			}
			leaves = append(leaves, leaf)
		}
		// Sorted keys keep the scan order deterministic; decoded JSON
		// objects carry no document order of their own.
		keys := make([]string, 0, len(n))
		for key := range n {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			leaves = append(leaves, r.FindStoryNodes(n[key])...)
		}
		return leaves

	case []any:
		var leaves []map[string]any
		for _, item := range n {
			leaves = append(leaves, r.FindStoryNodes(item)...)
		}
		return leaves

	default:
		// Scalars hold no stories.
		return nil
	}
}
