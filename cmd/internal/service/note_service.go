package service

import (
	"context"
	"time"

	"noteshare/cmd/internal/contract"
	"noteshare/cmd/internal/domain/entity"
	"noteshare/cmd/internal/domain/policy"
	"noteshare/cmd/internal/utils"
	"noteshare/cmd/internal/utils/apierror"
	"noteshare/cmd/internal/utils/sanitizer"
	"noteshare/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type NoteRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Note, error)
	FindPublic(ctx context.Context, sort entity.NoteSort, offset, limit int) ([]*entity.Note, int64, error)
	FindByOwner(ctx context.Context, owner string, offset, limit int) ([]*entity.Note, int64, error)
	FindLikedIn(ctx context.Context, username string, noteIDs []int64) (map[int64]bool, error)
	IsLiked(ctx context.Context, noteID int64, username string) (bool, error)
	Create(ctx context.Context, note *entity.Note) error
	Save(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, note *entity.Note) error
	IncrementViews(ctx context.Context, id int64) error
	ToggleLike(ctx context.Context, noteID int64, username string, at int64) (*entity.Note, bool, error)
}

type DefaultNoteService struct {
	NoteRepo NoteRepository
	Policy   *policy.NotePolicy
	Validate *validator.Validate
	Pages    Pagination

	// viewTimeout bounds the detached view counter update.
	viewTimeout time.Duration
}

func NewNoteService(
	noteRepo NoteRepository,
	notePolicy *policy.NotePolicy,
	validate *validator.Validate,
	pages Pagination,
) *DefaultNoteService {
	return &DefaultNoteService{
		NoteRepo:    noteRepo,
		Policy:      notePolicy,
		Validate:    validate,
		Pages:       pages,
		viewTimeout: 5 * time.Second,
	}
}

func (n *DefaultNoteService) CreateNote(ctx context.Context, actor *entity.User, req *contract.NoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	if actor == nil {
		return nil, apierror.UnauthorizedError
	}

	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	now := utils.NowUTC()
	note := &entity.Note{
		ID:          uid.Generate(),
		Owner:       actor.Username,
		Title:       req.Title,
		Body:        sanitizer.Clean(req.Body),
		IsPublic:    req.IsPublic,
		IsFavorite:  req.IsFavorite,
		IsCompleted: req.IsCompleted,
		CreatedAt:   now,
		EditedAt:    now,
	}

	if err := n.NoteRepo.Create(ctx, note); err != nil {
		log.Errorf("failed to create note: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note, true, false), nil
}

func (n *DefaultNoteService) UpdateNote(ctx context.Context, actor *entity.User, noteID int64, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	if actor == nil {
		return nil, apierror.UnauthorizedError
	}

	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, apierr := n.fetchNote(ctx, noteID)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = n.Policy.AuthorizeWrite(note, actor.Username); apierr != nil {
		return nil, apierr
	}

	updater := &noteUpdater{target: note}
	updater.setString(req.Title, &note.Title)
	updater.setBody(req.Body)
	updater.setFlag(req.IsPublic, &note.IsPublic)
	updater.setFlag(req.IsFavorite, &note.IsFavorite)
	updater.setFlag(req.IsCompleted, &note.IsCompleted)

	if updater.dirty {
		note.MarkEdited(utils.NowUTC())
		if err := n.NoteRepo.Save(ctx, note); err != nil {
			log.Errorf("failed to update note %d: %v", note.ID, err)
			return nil, apierror.InternalServerError
		}
	}

	liked, apierr := n.isLiked(ctx, note, actor.Username)
	if apierr != nil {
		return nil, apierr
	}
	return toNoteResponse(note, true, liked), nil
}

func (n *DefaultNoteService) DeleteNote(ctx context.Context, actor *entity.User, noteID int64) apierror.ErrorResponse {
	if actor == nil {
		return apierror.UnauthorizedError
	}

	note, apierr := n.fetchNote(ctx, noteID)
	if apierr != nil {
		return apierr
	}

	if apierr = n.Policy.AuthorizeWrite(note, actor.Username); apierr != nil {
		return apierr
	}

	if err := n.NoteRepo.Delete(ctx, note); err != nil {
		log.Errorf("failed to delete note %d: %v", note.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

// GetNote returns a note readable by actor, which may be nil.
func (n *DefaultNoteService) GetNote(ctx context.Context, actor *entity.User, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, apierr := n.fetchNote(ctx, noteID)
	if apierr != nil {
		return nil, apierr
	}

	name := utils.ActorName(actor)
	if apierr = n.Policy.AuthorizeRead(note, name); apierr != nil {
		return nil, apierr
	}
	return n.viewNote(ctx, note, name)
}

// GetOwnedNote returns one of actor's own notes. Notes of other users are
// reported as missing even when public.
func (n *DefaultNoteService) GetOwnedNote(ctx context.Context, actor *entity.User, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	if actor == nil {
		return nil, apierror.UnauthorizedError
	}

	note, apierr := n.fetchNote(ctx, noteID)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = n.Policy.AuthorizeOwned(note, actor.Username); apierr != nil {
		return nil, apierr
	}
	return n.viewNote(ctx, note, actor.Username)
}

func (n *DefaultNoteService) ListPublicNotes(ctx context.Context, actor *entity.User, sort entity.NoteSort, req contract.PageRequest) (*contract.NotePage, apierror.ErrorResponse) {
	if sort == "" {
		sort = entity.SortByDate
	}
	if !sort.Valid() {
		return nil, apierror.InvalidSortError
	}

	page, size := n.Pages.normalize(req)
	notes, total, err := n.NoteRepo.FindPublic(ctx, sort, pageOffset(page, size), size)
	if err != nil {
		log.Errorf("failed to list public notes: %v", err)
		return nil, apierror.InternalServerError
	}
	return n.toPage(ctx, notes, total, page, size, utils.ActorName(actor))
}

func (n *DefaultNoteService) ListOwnedNotes(ctx context.Context, actor *entity.User, req contract.PageRequest) (*contract.NotePage, apierror.ErrorResponse) {
	if actor == nil {
		return nil, apierror.UnauthorizedError
	}

	page, size := n.Pages.normalize(req)
	notes, total, err := n.NoteRepo.FindByOwner(ctx, actor.Username, pageOffset(page, size), size)
	if err != nil {
		log.Errorf("failed to list notes of %s: %v", actor.Username, err)
		return nil, apierror.InternalServerError
	}
	return n.toPage(ctx, notes, total, page, size, actor.Username)
}

// ToggleLike flips the like of actor on a note they can read.
// The owner may like their own notes.
func (n *DefaultNoteService) ToggleLike(ctx context.Context, actor *entity.User, noteID int64) (*contract.LikeResponse, apierror.ErrorResponse) {
	if actor == nil {
		return nil, apierror.UnauthorizedError
	}

	note, apierr := n.fetchNote(ctx, noteID)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = n.Policy.AuthorizeRead(note, actor.Username); apierr != nil {
		return nil, apierr
	}

	note, liked, err := n.NoteRepo.ToggleLike(ctx, noteID, actor.Username, utils.NowUTC())
	if err != nil {
		log.Errorf("failed to toggle like on note %d: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	// Deleted between the read and the toggle
	if note == nil {
		return nil, apierror.NotFoundError
	}

	return &contract.LikeResponse{
		ID:        note.ID,
		Liked:     liked,
		LikeCount: note.LikeCount,
	}, nil
}

func (n *DefaultNoteService) fetchNote(ctx context.Context, noteID int64) (*entity.Note, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(ctx, noteID)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NotFoundError
	}
	return note, nil
}

func (n *DefaultNoteService) viewNote(ctx context.Context, note *entity.Note, actor string) (*contract.NoteResponse, apierror.ErrorResponse) {
	liked, apierr := n.isLiked(ctx, note, actor)
	if apierr != nil {
		return nil, apierr
	}

	go n.bumpViews(note.ID)

	note.ViewCount++
	return toNoteResponse(note, true, liked), nil
}

func (n *DefaultNoteService) bumpViews(noteID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), n.viewTimeout)
	defer cancel()

	if err := n.NoteRepo.IncrementViews(ctx, noteID); err != nil {
		log.Warnf("failed to count view of note %d: %v", noteID, err)
	}
}

func (n *DefaultNoteService) isLiked(ctx context.Context, note *entity.Note, actor string) (bool, apierror.ErrorResponse) {
	if actor == policy.Anonymous {
		return false, nil
	}

	liked, err := n.NoteRepo.IsLiked(ctx, note.ID, actor)
	if err != nil {
		log.Errorf("failed to check like of note %d: %v", note.ID, err)
		return false, apierror.InternalServerError
	}
	return liked, nil
}

func (n *DefaultNoteService) toPage(ctx context.Context, notes []*entity.Note, total int64, page, size int, actor string) (*contract.NotePage, apierror.ErrorResponse) {
	ids := make([]int64, len(notes))
	for i, note := range notes {
		ids[i] = note.ID
	}

	liked, err := n.NoteRepo.FindLikedIn(ctx, actor, ids)
	if err != nil {
		log.Errorf("failed to fetch likes of %s: %v", actor, err)
		return nil, apierror.InternalServerError
	}

	results := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		results[i] = toNoteResponse(note, false, liked[note.ID])
	}
	return newNotePage(results, total, page, size), nil
}

// toNoteResponse maps a note to its API shape. List responses only carry
// a preview of the body.
func toNoteResponse(note *entity.Note, fullBody, liked bool) *contract.NoteResponse {
	body := note.Body
	if !fullBody {
		body = note.Preview()
	}

	return &contract.NoteResponse{
		ID:          note.ID,
		Owner:       note.Owner,
		Title:       note.Title,
		Body:        body,
		IsPublic:    note.IsPublic,
		IsFavorite:  note.IsFavorite,
		IsCompleted: note.IsCompleted,
		ViewCount:   note.ViewCount,
		LikeCount:   note.LikeCount,
		Liked:       liked,
		CreatedAt:   utils.FormatEpoch(note.CreatedAt),
		EditedAt:    utils.FormatEpoch(note.EditedAt),
	}
}
