package scopes

import "gorm.io/gorm"

// Orders shared by the tag, study and user listings.
const (
	OrderMostNotes  = "most-notes"
	OrderLeastNotes = "least-notes"
)

// TagOrderConditions sorts tags by age or by how many notes reference them.
func TagOrderConditions() map[string]Scope {
	return map[string]Scope{
		OrderNew: func(db *gorm.DB) *gorm.DB { return db.Order("tags.created_at DESC") },
		OrderOld: func(db *gorm.DB) *gorm.DB { return db.Order("tags.created_at ASC") },
		OrderMostNotes: func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("LEFT JOIN note_tags ON note_tags.tag_id = tags.id").
				Group("tags.id").
				Order("COUNT(note_tags.note_id) DESC")
		},
		OrderLeastNotes: func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("LEFT JOIN note_tags ON note_tags.tag_id = tags.id").
				Group("tags.id").
				Order("COUNT(note_tags.note_id) ASC")
		},
	}
}

// StudyOrderConditions mirrors the tag orders for studies.
func StudyOrderConditions() map[string]Scope {
	return map[string]Scope{
		OrderNew: func(db *gorm.DB) *gorm.DB { return db.Order("studies.created_at DESC") },
		OrderOld: func(db *gorm.DB) *gorm.DB { return db.Order("studies.created_at ASC") },
		OrderMostNotes: func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("LEFT JOIN notes ON notes.study_id = studies.id").
				Group("studies.id").
				Order("COUNT(notes.id) DESC")
		},
		OrderLeastNotes: func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("LEFT JOIN notes ON notes.study_id = studies.id").
				Group("studies.id").
				Order("COUNT(notes.id) ASC")
		},
	}
}

// UserOrderConditions sorts user listings by account age.
func UserOrderConditions() map[string]Scope {
	return map[string]Scope{
		OrderNew: func(db *gorm.DB) *gorm.DB { return db.Order("users.created_at DESC") },
		OrderOld: func(db *gorm.DB) *gorm.DB { return db.Order("users.created_at ASC") },
	}
}

// Resolve picks conditions[key], falling back to conditions[fallback].
func Resolve(conditions map[string]Scope, key, fallback string) (Scope, string) {
	if s, ok := conditions[key]; ok {
		return s, key
	}
	return conditions[fallback], fallback
}
