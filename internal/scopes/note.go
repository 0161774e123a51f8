// Package scopes holds the reusable GORM predicates behind every listing
// endpoint: note visibility by category, and sort conditions per entity.
package scopes

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope is a composable query fragment.
type Scope func(*gorm.DB) *gorm.DB

// Note categories. Which subset a given endpoint accepts is decided by the
// endpoint itself, not here.
const (
	CategoryHome      = "home"
	CategoryPrivate   = "private"
	CategoryShared    = "shared"
	CategorySelf      = "self"
	CategoryFavorited = "favorited"
	CategorySaved     = "saved"
)

// Note orders.
const (
	OrderNew   = "new"
	OrderOld   = "old"
	OrderBest  = "best"
	OrderWorst = "worst"
)

// None matches zero rows. Viewer-scoped categories resolve to this when there
// is no viewer, so anonymous requests get an empty page instead of an error.
func None() Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("1 = 0")
	}
}

const (
	permExists      = "EXISTS (SELECT 1 FROM note_permissions np WHERE np.note_id = notes.id AND np.user_id = ?)"
	permOtherExists = "EXISTS (SELECT 1 FROM note_permissions np WHERE np.note_id = notes.id AND np.user_id <> ?)"
)

// NoteCategoryConditions maps each category to its visibility predicate for
// the given viewer. A nil viewer is the anonymous reader.
func NoteCategoryConditions(viewerID *uuid.UUID) map[string]Scope {
	if viewerID == nil {
		return map[string]Scope{
			CategoryHome:      func(db *gorm.DB) *gorm.DB { return db.Where("notes.is_private = ?", false) },
			CategoryPrivate:   None(),
			CategoryShared:    None(),
			CategorySelf:      None(),
			CategoryFavorited: None(),
			CategorySaved:     None(),
		}
	}

	v := *viewerID
	return map[string]Scope{
		CategoryHome: func(db *gorm.DB) *gorm.DB {
			return db.Where(
				"notes.is_private = ? OR (notes.is_private = ? AND notes.user_id = ?) OR "+
					permExists+" OR (notes.user_id = ? AND "+permOtherExists+")",
				false, true, v, v, v, v,
			)
		},
		CategoryPrivate: func(db *gorm.DB) *gorm.DB {
			return db.Where("notes.is_private = ? AND notes.user_id = ?", true, v)
		},
		CategoryShared: func(db *gorm.DB) *gorm.DB {
			return db.Where(
				"(notes.user_id <> ? AND "+permExists+") OR (notes.user_id = ? AND "+permOtherExists+")",
				v, v, v, v,
			)
		},
		CategorySelf: func(db *gorm.DB) *gorm.DB {
			return db.Where("notes.user_id = ?", v)
		},
		CategoryFavorited: interactionFlag(v, "is_favorited"),
		CategorySaved:     interactionFlag(v, "is_saved"),
	}
}

func interactionFlag(viewerID uuid.UUID, column string) Scope {
	// column is one of the fixed flag names above, never user input.
	query := "EXISTS (SELECT 1 FROM note_interactions ni WHERE ni.note_id = notes.id AND ni.user_id = ? AND ni." + column + " = ?)"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, viewerID, true)
	}
}

// NoteOrderConditions maps each order key to its sort scope. The viewer is
// accepted for interface uniformity with the category map but does not change
// sort semantics. best/worst join the counter table themselves.
func NoteOrderConditions(_ *uuid.UUID) map[string]Scope {
	return map[string]Scope{
		OrderNew: func(db *gorm.DB) *gorm.DB { return db.Order("notes.created_at DESC") },
		OrderOld: func(db *gorm.DB) *gorm.DB { return db.Order("notes.created_at ASC") },
		OrderBest: func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("JOIN note_interaction_counters counters ON counters.note_id = notes.id").
				Order("counters.upvoted_count DESC")
		},
		OrderWorst: func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("JOIN note_interaction_counters counters ON counters.note_id = notes.id").
				Order("counters.downvoted_count DESC")
		},
	}
}

// ResolveNoteCategory looks up the predicate for key, falling back to "home"
// for unrecognized or empty keys. Returns the scope and the resolved key.
func ResolveNoteCategory(viewerID *uuid.UUID, key string) (Scope, string) {
	conditions := NoteCategoryConditions(viewerID)
	if s, ok := conditions[key]; ok {
		return s, key
	}
	return conditions[CategoryHome], CategoryHome
}

// ResolveNoteOrder is the order-side counterpart, falling back to "new".
func ResolveNoteOrder(viewerID *uuid.UUID, key string) (Scope, string) {
	conditions := NoteOrderConditions(viewerID)
	if s, ok := conditions[key]; ok {
		return s, key
	}
	return conditions[OrderNew], OrderNew
}
