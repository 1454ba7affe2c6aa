package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"medcamp-api-server/internal/campquery"
)

func TestKey(t *testing.T) {
	base := Key(0, campquery.Params{})

	assert.True(t, strings.HasPrefix(base, keyPrefix+"0:"))
	assert.Equal(t, base, Key(0, campquery.Params{SortBy: "date", Order: "asc"}))
	assert.NotEqual(t, base, Key(0, campquery.Params{Search: "eye"}))
	assert.NotEqual(t, base, Key(0, campquery.Params{OrganizerEmail: "org@x.com"}))

	// every truthy popular value shares one entry
	assert.Equal(t, Key(0, campquery.Params{Popular: "true"}), Key(0, campquery.Params{Popular: "1"}))
	assert.NotEqual(t, base, Key(0, campquery.Params{Popular: "true"}))
}

func TestKey_GenerationSeparatesEntries(t *testing.T) {
	p := campquery.Params{Search: "eye"}
	assert.NotEqual(t, Key(1, p), Key(2, p))
	assert.NotEqual(t, generationKey, Key(0, p))
}

func TestNewListingCache_DefaultsTTL(t *testing.T) {
	assert.Equal(t, defaultTTL, NewListingCache(nil, 0).ttl)
	assert.Equal(t, defaultTTL, NewListingCache(nil, -1).ttl)
}
