package service

import (
	"noteshare/cmd/internal/domain/entity"
	"noteshare/cmd/internal/utils/sanitizer"
)

// noteUpdater acts as a "Change Set" over a note.
// It tracks whether anything actually changed so untouched notes keep
// their edit time.
type noteUpdater struct {
	target *entity.Note
	dirty  bool
}

func (u *noteUpdater) setString(newVal *string, targetField *string) {
	if newVal == nil || *newVal == *targetField {
		return
	}
	*targetField = *newVal
	u.dirty = true
}

// setBody sanitises before comparing, so resubmitting the stored body is a no-op.
func (u *noteUpdater) setBody(newVal *string) {
	if newVal == nil {
		return
	}
	clean := sanitizer.Clean(*newVal)
	u.setString(&clean, &u.target.Body)
}

func (u *noteUpdater) setFlag(newVal *bool, targetField *bool) {
	if newVal == nil || *newVal == *targetField {
		return
	}
	*targetField = *newVal
	u.dirty = true
}
