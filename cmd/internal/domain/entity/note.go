package entity

import (
	"slices"
	"unicode/utf8"
)

// PreviewLength is the number of body characters carried by list responses.
const PreviewLength = 1600

// NoteSort selects the ordering of the public note listing.
type NoteSort string

const (
	SortByDate  NoteSort = "date"
	SortByLikes NoteSort = "likes"
)

func (s NoteSort) Valid() bool {
	return s == SortByDate || s == SortByLikes
}

type Note struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false"`
	Owner       string `gorm:"not null;size:191;index"` // Username of the creator, not a foreign key
	Title       string `gorm:"not null;size:120"`
	Body        string `gorm:"not null"`
	IsPublic    bool   `gorm:"not null;default:false;index"`
	IsFavorite  bool   `gorm:"not null;default:false"`
	IsCompleted bool   `gorm:"not null;default:false"`
	ViewCount   int64  `gorm:"not null;default:0"`
	LikeCount   int    `gorm:"not null;default:0;index"`
	CreatedAt   int64  `gorm:"not null;autoCreateTime:false"`
	EditedAt    int64  `gorm:"not null;index"`

	// Relations
	LikedBy []NoteLike `gorm:"foreignKey:NoteID;references:ID;constraint:OnDelete:CASCADE;"`
}

// NoteLike is a single membership of the liked-by set of a note.
// The composite key keeps a user from liking the same note twice.
type NoteLike struct {
	NoteID    int64  `gorm:"primaryKey;autoIncrement:false"`
	Username  string `gorm:"primaryKey;size:191"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false"`
}

// HasLiked reports whether username is part of the liked-by set.
// Only meaningful when LikedBy was loaded.
func (n *Note) HasLiked(username string) bool {
	return slices.ContainsFunc(n.LikedBy, func(l NoteLike) bool {
		return l.Username == username
	})
}

// ToggleLike flips the membership of username in the liked-by set and
// recomputes LikeCount. It returns true when the user now likes the note.
func (n *Note) ToggleLike(username string, at int64) bool {
	idx := slices.IndexFunc(n.LikedBy, func(l NoteLike) bool {
		return l.Username == username
	})

	liked := idx < 0
	if liked {
		n.LikedBy = append(n.LikedBy, NoteLike{NoteID: n.ID, Username: username, CreatedAt: at})
	} else {
		n.LikedBy = slices.Delete(n.LikedBy, idx, idx+1)
	}
	n.LikeCount = len(n.LikedBy)
	return liked
}

// MarkEdited moves EditedAt forward, never before CreatedAt.
func (n *Note) MarkEdited(at int64) {
	n.EditedAt = max(at, n.CreatedAt)
}

// Preview returns the body cut at PreviewLength characters.
func (n *Note) Preview() string {
	if utf8.RuneCountInString(n.Body) <= PreviewLength {
		return n.Body
	}

	runes := []rune(n.Body)
	return string(runes[:PreviewLength])
}
