package policy

import (
	"noteshare/cmd/internal/domain/entity"
	"noteshare/cmd/internal/utils/apierror"
)

// Anonymous is the actor identity of unauthenticated requests.
const Anonymous = ""

// NotePolicy encapsulates all business rules for note visibility and ownership.
// The Authorize* methods return apierror.ErrorResponse directly for seamless
// integration with handlers.
type NotePolicy struct{}

func NewNotePolicy() *NotePolicy {
	return &NotePolicy{}
}

// CanRead reports whether actor may see the note: public notes are
// visible to everyone, private ones only to their owner.
func (p *NotePolicy) CanRead(note *entity.Note, actor string) bool {
	if note == nil {
		return false
	}
	return note.IsPublic || p.CanWrite(note, actor)
}

// CanWrite reports whether actor may modify or delete the note.
func (p *NotePolicy) CanWrite(note *entity.Note, actor string) bool {
	if note == nil || actor == Anonymous {
		return false
	}
	return note.Owner == actor
}

func (p *NotePolicy) AuthorizeRead(note *entity.Note, actor string) apierror.ErrorResponse {
	if !p.CanRead(note, actor) {
		return apierror.NotFoundError // existence is not disclosed
	}
	return nil
}

func (p *NotePolicy) AuthorizeWrite(note *entity.Note, actor string) apierror.ErrorResponse {
	if err := p.AuthorizeRead(note, actor); err != nil {
		return err
	}

	if !p.CanWrite(note, actor) {
		return apierror.ForbiddenError
	}
	return nil
}

// AuthorizeOwned is used by the private routes, where notes of other
// users are never addressed, public or not.
func (p *NotePolicy) AuthorizeOwned(note *entity.Note, actor string) apierror.ErrorResponse {
	if !p.CanWrite(note, actor) {
		return apierror.NotFoundError
	}
	return nil
}
