package scopes

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolveNoteCategoryFallback(t *testing.T) {
	viewer := uuid.New()

	_, key := ResolveNoteCategory(&viewer, "favorited")
	assert.Equal(t, "favorited", key)

	_, key = ResolveNoteCategory(&viewer, "bogus")
	assert.Equal(t, CategoryHome, key)

	_, key = ResolveNoteCategory(nil, "")
	assert.Equal(t, CategoryHome, key)
}

func TestResolveNoteOrderFallback(t *testing.T) {
	_, key := ResolveNoteOrder(nil, "worst")
	assert.Equal(t, "worst", key)

	_, key = ResolveNoteOrder(nil, "sideways")
	assert.Equal(t, OrderNew, key)
}

func TestCategoryMapsCoverSameKeys(t *testing.T) {
	viewer := uuid.New()
	anonymous := NoteCategoryConditions(nil)
	authenticated := NoteCategoryConditions(&viewer)

	assert.Len(t, anonymous, len(authenticated))
	for key := range authenticated {
		assert.Contains(t, anonymous, key)
	}
}

func TestLookupResolveFallback(t *testing.T) {
	_, key := Resolve(TagOrderConditions(), OrderMostNotes, OrderNew)
	assert.Equal(t, OrderMostNotes, key)

	_, key = Resolve(TagOrderConditions(), "bogus", OrderNew)
	assert.Equal(t, OrderNew, key)

	_, key = Resolve(UserOrderConditions(), OrderMostNotes, OrderNew)
	assert.Equal(t, OrderNew, key)
}
