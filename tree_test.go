package khobor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: decode a JSON document the way page payloads arrive
func decodeTree(t *testing.T, doc string) any {
	t.Helper()
	var node any
	err := json.Unmarshal([]byte(doc), &node)
	require.NoError(t, err, "fixture must be valid JSON")
	return node
}

// Test helper: rules matching the Quintype payload shape
func testRules() Rules {
	return Rules{
		TypeKey:        "type",
		CollectionType: "collection",
		ItemsKey:       "items",
		StoryType:      "story",
		StoryKey:       "story",
	}
}

// Test helper: pull the slugs out of found leaves, in order
func leafSlugs(leaves []map[string]any) []string {
	slugs := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		slug, _ := leaf["slug"].(string)
		slugs = append(slugs, slug)
	}
	return slugs
}

// TestFindStoryNodes_CollectionExpandsOnlyItems verifies a collection's
// non-items fields are never scanned
func TestFindStoryNodes_CollectionExpandsOnlyItems(t *testing.T) {
	tree := decodeTree(t, `{
		"type": "collection",
		"items": [
			{"type": "story", "story": {"headline": "Inside", "slug": "inside"}}
		],
		"associated-metadata": {
			"type": "story", "story": {"headline": "Outside", "slug": "outside"}
		}
	}`)

	leaves := testRules().FindStoryNodes(tree)

	require.Len(t, leaves, 1, "only the items branch should be expanded")
	assert.Equal(t, "inside", leaves[0]["slug"])
}

// TestFindStoryNodes_NestedCollections verifies arbitrary nesting depth
func TestFindStoryNodes_NestedCollections(t *testing.T) {
	tree := decodeTree(t, `{
		"type": "collection",
		"items": [
			{"type": "story", "story": {"headline": "Top", "slug": "top"}},
			{
				"type": "collection",
				"items": [
					{
						"type": "collection",
						"items": [
							{"type": "story", "story": {"headline": "Deep", "slug": "deep"}}
						]
					}
				]
			}
		]
	}`)

	leaves := testRules().FindStoryNodes(tree)

	assert.Equal(t, []string{"top", "deep"}, leafSlugs(leaves))
}

// TestFindStoryNodes_UnwrapsStoryWrapper verifies the wrapper key is
// peeled off when present
func TestFindStoryNodes_UnwrapsStoryWrapper(t *testing.T) {
	tree := decodeTree(t, `{
		"type": "story",
		"story": {"headline": "Wrapped", "slug": "wrapped"}
	}`)

	leaves := testRules().FindStoryNodes(tree)

	require.Len(t, leaves, 1)
	assert.Equal(t, "Wrapped", leaves[0]["headline"], "the inner object should be the leaf")
}

// TestFindStoryNodes_LeafWithoutWrapper verifies bare story nodes are
// used as-is
func TestFindStoryNodes_LeafWithoutWrapper(t *testing.T) {
	tree := decodeTree(t, `{"type": "story", "headline": "Bare", "slug": "bare"}`)

	leaves := testRules().FindStoryNodes(tree)

	require.Len(t, leaves, 1)
	assert.Equal(t, "Bare", leaves[0]["headline"])
}

// TestFindStoryNodes_StoryFieldsAreScanned verifies stories can embed
// further stories, unlike collections
func TestFindStoryNodes_StoryFieldsAreScanned(t *testing.T) {
	tree := decodeTree(t, `{
		"type": "story",
		"story": {"headline": "Outer", "slug": "outer"},
		"related": {
			"type": "story", "story": {"headline": "Embedded", "slug": "embedded"}
		}
	}`)

	leaves := testRules().FindStoryNodes(tree)

	require.Len(t, leaves, 2, "a story node's fields should still be scanned")
	assert.Equal(t, "outer", leaves[0]["slug"], "the enclosing story comes first")
	assert.Equal(t, "embedded", leaves[1]["slug"])
}

// TestFindStoryNodes_CollectionTypeWithoutItems verifies a node needs
// both the type and the items key to count as a collection
func TestFindStoryNodes_CollectionTypeWithoutItems(t *testing.T) {
	tree := decodeTree(t, `{
		"type": "collection",
		"rows": [
			{"type": "story", "story": {"headline": "Found", "slug": "found"}}
		]
	}`)

	leaves := testRules().FindStoryNodes(tree)

	require.Len(t, leaves, 1, "without an items key the node is scanned generically")
	assert.Equal(t, "found", leaves[0]["slug"])
}

// TestFindStoryNodes_ItemsWithoutCollectionType verifies an items key
// alone does not make the expansion exclusive
func TestFindStoryNodes_ItemsWithoutCollectionType(t *testing.T) {
	tree := decodeTree(t, `{
		"type": "grid",
		"items": [
			{"type": "story", "story": {"headline": "A", "slug": "a"}}
		],
		"sidebar": {"type": "story", "story": {"headline": "B", "slug": "b"}}
	}`)

	leaves := testRules().FindStoryNodes(tree)

	assert.ElementsMatch(t, []string{"a", "b"}, leafSlugs(leaves),
		"a non-collection node should have every field scanned")
}

// TestFindStoryNodes_SequencesScanned verifies arrays are walked element
// by element in order
func TestFindStoryNodes_SequencesScanned(t *testing.T) {
	tree := decodeTree(t, `[
		{"type": "story", "story": {"headline": "First", "slug": "first"}},
		"noise",
		42,
		{"type": "story", "story": {"headline": "Second", "slug": "second"}}
	]`)

	leaves := testRules().FindStoryNodes(tree)

	assert.Equal(t, []string{"first", "second"}, leafSlugs(leaves))
}

// TestFindStoryNodes_ScalarsYieldNothing verifies scalar roots are inert
func TestFindStoryNodes_ScalarsYieldNothing(t *testing.T) {
	for _, doc := range []string{`"text"`, `42`, `true`, `null`} {
		leaves := testRules().FindStoryNodes(decodeTree(t, doc))
		assert.Empty(t, leaves, "scalar %s should yield no leaves", doc)
	}
}

// TestFindStoryNodes_SameEntityOnTwoPaths verifies the traversal reports
// every occurrence; deduplication is the caller's job
func TestFindStoryNodes_SameEntityOnTwoPaths(t *testing.T) {
	tree := decodeTree(t, `{
		"type": "collection",
		"items": [
			{"type": "story", "story": {"headline": "H1", "slug": "s1"}},
			{"type": "story", "story": {"headline": "H1", "slug": "s1"}}
		]
	}`)

	leaves := testRules().FindStoryNodes(tree)

	require.Len(t, leaves, 2, "both occurrences should be reported")
	assert.Equal(t, []string{"s1", "s1"}, leafSlugs(leaves))
}

// TestFindStoryNodes_MixedDepthPayload verifies a realistic page payload:
// collections inside generic wrappers inside arrays
func TestFindStoryNodes_MixedDepthPayload(t *testing.T) {
	tree := decodeTree(t, `{
		"pageType": "section-page",
		"data": {
			"collection": {
				"type": "collection",
				"items": [
					{"type": "story", "story": {"headline": "One", "slug": "one"}},
					{
						"type": "collection",
						"items": [
							{"type": "story", "story": {"headline": "Two", "slug": "two"}}
						]
					}
				]
			},
			"breaking": [
				{"type": "story", "headline": "Three", "slug": "three"}
			]
		}
	}`)

	leaves := testRules().FindStoryNodes(tree)

	assert.ElementsMatch(t, []string{"one", "two", "three"}, leafSlugs(leaves))
}

// Property test: traversal is read-only on the input tree
func TestFindStoryNodes_DoesNotMutateInput(t *testing.T) {
	doc := `{
		"type": "collection",
		"items": [
			{"type": "story", "story": {"headline": "H", "slug": "s"}}
		]
	}`
	tree := decodeTree(t, doc)

	_ = testRules().FindStoryNodes(tree)

	reencoded, err := json.Marshal(tree)
	require.NoError(t, err)
	var want, got any
	require.NoError(t, json.Unmarshal([]byte(doc), &want))
	require.NoError(t, json.Unmarshal(reencoded, &got))
	assert.Equal(t, want, got)
}
