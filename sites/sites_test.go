package sites

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khobor"
)

// TestByName_ResolvesBuiltins verifies the shipped adapters resolve by
// their registry keys
func TestByName_ResolvesBuiltins(t *testing.T) {
	prothomAlo, err := ByName("prothom_alo")
	require.NoError(t, err)
	assert.Equal(t, "Prothom Alo Education", prothomAlo.Name())

	dailyStar, err := ByName("daily_star")
	require.NoError(t, err)
	assert.Equal(t, "The Daily Star - Education", dailyStar.Name())
}

// TestByName_CaseInsensitive verifies lookup ignores case
func TestByName_CaseInsensitive(t *testing.T) {
	source, err := ByName("PROTHOM_ALO")

	require.NoError(t, err)
	assert.Equal(t, "Prothom Alo Education", source.Name())
}

// TestByName_UnknownSource verifies the one unrecoverable configuration
// error: a name nothing is registered under
func TestByName_UnknownSource(t *testing.T) {
	_, err := ByName("bbc_bangla")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown source "bbc_bangla"`)
	assert.Contains(t, err.Error(), "prothom_alo", "the error should list what is available")
	assert.Contains(t, err.Error(), "daily_star")
}

// TestNames_SortedAndComplete verifies Names is stable and covers the
// builtins
func TestNames_SortedAndComplete(t *testing.T) {
	names := Names()

	assert.True(t, slices.IsSorted(names), "names should come back in stable sorted order")
	assert.Contains(t, names, "prothom_alo")
	assert.Contains(t, names, "daily_star")
}

// TestAll_OneAdapterPerName verifies All materializes every registered
// source in Names order
func TestAll_OneAdapterPerName(t *testing.T) {
	names := Names()
	sources := All()

	require.Len(t, sources, len(names))
	for i, source := range sources {
		byName, err := ByName(names[i])
		require.NoError(t, err)
		assert.Equal(t, byName.Name(), source.Name())
	}
}

// TestRegister_AddsResolvableSource verifies runtime registration, the
// path config-file feeds arrive through
func TestRegister_AddsResolvableSource(t *testing.T) {
	Register("Test_Feed_Source", func() khobor.Source {
		return NewFeedSource("Registered Feed", "https://example.com/feed.xml", "", FeedSelectors{Body: "p"})
	})

	source, err := ByName("test_feed_source")
	require.NoError(t, err)
	assert.Equal(t, "Registered Feed", source.Name())

	assert.Contains(t, Names(), "test_feed_source", "registered keys are stored lowercase")
}
