package repository

import (
	"context"
	"errors"

	"noteshare/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

func (d *DefaultNoteRepository) FindByID(ctx context.Context, id int64) (*entity.Note, error) {
	var note entity.Note
	err := d.db.WithContext(ctx).First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

// FindPublic returns one page of public notes and the total of public notes.
func (d *DefaultNoteRepository) FindPublic(ctx context.Context, sort entity.NoteSort, offset, limit int) ([]*entity.Note, int64, error) {
	query := d.db.WithContext(ctx).Model(&entity.Note{}).Where("is_public = ?", true).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if sort == entity.SortByLikes {
		query = query.Order("like_count DESC")
	}

	var notes []*entity.Note
	err := query.
		Order("edited_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

// FindByOwner returns one page of the owner's notes, favorites first.
func (d *DefaultNoteRepository) FindByOwner(ctx context.Context, owner string, offset, limit int) ([]*entity.Note, int64, error) {
	query := d.db.WithContext(ctx).Model(&entity.Note{}).Where("owner = ?", owner).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notes []*entity.Note
	err := query.
		Order("is_favorite DESC").
		Order("edited_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

// FindLikedIn returns which of the given notes username currently likes.
func (d *DefaultNoteRepository) FindLikedIn(ctx context.Context, username string, noteIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool, len(noteIDs))
	if username == "" || len(noteIDs) == 0 {
		return liked, nil
	}

	var ids []int64
	err := d.db.WithContext(ctx).
		Model(&entity.NoteLike{}).
		Where("username = ? AND note_id IN ?", username, noteIDs).
		Pluck("note_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (d *DefaultNoteRepository) IsLiked(ctx context.Context, noteID int64, username string) (bool, error) {
	liked, err := d.FindLikedIn(ctx, username, []int64{noteID})
	if err != nil {
		return false, err
	}
	return liked[noteID], nil
}

// FindCreatedSince lists the creation timestamps of the owner's notes
// created at or after since (epoch millis).
func (d *DefaultNoteRepository) FindCreatedSince(ctx context.Context, owner string, since int64) ([]int64, error) {
	var stamps []int64
	err := d.db.WithContext(ctx).
		Model(&entity.Note{}).
		Where("owner = ? AND created_at >= ?", owner, since).
		Pluck("created_at", &stamps).Error
	if err != nil {
		return nil, err
	}
	return stamps, nil
}

// CountByOwner returns how many notes the owner has and how many of them are not completed.
func (d *DefaultNoteRepository) CountByOwner(ctx context.Context, owner string) (total, incomplete int64, err error) {
	var row struct {
		Total      int64
		Incomplete int64
	}
	err = d.db.WithContext(ctx).
		Model(&entity.Note{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_completed THEN 0 ELSE 1 END), 0) AS incomplete").
		Where("owner = ?", owner).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Total, row.Incomplete, nil
}

func (d *DefaultNoteRepository) Count(ctx context.Context, publicOnly bool) (int64, error) {
	query := d.db.WithContext(ctx).Model(&entity.Note{})
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}

	var total int64
	err := query.Count(&total).Error
	return total, err
}

func (d *DefaultNoteRepository) Create(ctx context.Context, note *entity.Note) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(note).Error
}

// Save persists the editable columns only. View and like counters have
// their own atomic statements and are never written from a stale copy.
func (d *DefaultNoteRepository) Save(ctx context.Context, note *entity.Note) error {
	return d.db.WithContext(ctx).
		Model(note).
		Select("title", "body", "is_public", "is_favorite", "is_completed", "edited_at").
		Updates(note).Error
}

func (d *DefaultNoteRepository) Delete(ctx context.Context, note *entity.Note) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", note.ID).Delete(&entity.NoteLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Note{}, note.ID).Error
	})
}

func (d *DefaultNoteRepository) IncrementViews(ctx context.Context, id int64) error {
	return d.db.WithContext(ctx).
		Model(&entity.Note{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// ToggleLike flips the like of username on the note inside a single
// transaction scoped to the note row, and recomputes like_count from the
// like rows. It returns the refreshed note (nil when it does not exist) and
// whether the user likes it afterwards.
func (d *DefaultNoteRepository) ToggleLike(ctx context.Context, noteID int64, username string, at int64) (*entity.Note, bool, error) {
	var (
		note  entity.Note
		liked bool
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lock := tx
		if tx.Dialector.Name() != "sqlite" {
			// SQLite has no row locks, its write transactions are already serialised.
			lock = tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
		}
		if err := lock.First(&note, noteID).Error; err != nil {
			return err
		}

		res := tx.Where("note_id = ? AND username = ?", noteID, username).Delete(&entity.NoteLike{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			like := &entity.NoteLike{NoteID: noteID, Username: username, CreatedAt: at}
			if err := tx.Create(like).Error; err != nil {
				return err
			}
			liked = true
		}

		err := tx.Model(&entity.Note{}).
			Where("id = ?", noteID).
			UpdateColumn("like_count", tx.Model(&entity.NoteLike{}).Select("COUNT(*)").Where("note_id = ?", noteID)).Error
		if err != nil {
			return err
		}
		return tx.First(&note, noteID).Error
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}
	return &note, liked, nil
}
