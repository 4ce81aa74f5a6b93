package service

import (
	"context"
	"time"

	"noteshare/cmd/internal/contract"
	"noteshare/cmd/internal/domain/entity"
	"noteshare/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

type NoteStatsRepository interface {
	FindCreatedSince(ctx context.Context, owner string, since int64) ([]int64, error)
	CountByOwner(ctx context.Context, owner string) (total, incomplete int64, err error)
	Count(ctx context.Context, publicOnly bool) (int64, error)
}

type StatsService struct {
	NoteRepo NoteStatsRepository
	UserRepo UserRepository

	now func() time.Time
}

func NewStatsService(noteRepo NoteStatsRepository, userRepo UserRepository) *StatsService {
	return &StatsService{
		NoteRepo: noteRepo,
		UserRepo: userRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Profile gathers the account page of actor: the monthly note histogram,
// completion share and current token.
func (s *StatsService) Profile(ctx context.Context, actor *entity.User) (*contract.ProfileResponse, apierror.ErrorResponse) {
	if actor == nil {
		return nil, apierror.UnauthorizedError
	}

	now := s.now()
	since := ActivityWindowStart(now, DefaultActivityMonths)

	stamps, err := s.NoteRepo.FindCreatedSince(ctx, actor.Username, since.UnixMilli())
	if err != nil {
		log.Errorf("failed to fetch activity of %s: %v", actor.Username, err)
		return nil, apierror.InternalServerError
	}

	total, incomplete, err := s.NoteRepo.CountByOwner(ctx, actor.Username)
	if err != nil {
		log.Errorf("failed to count notes of %s: %v", actor.Username, err)
		return nil, apierror.InternalServerError
	}

	token, err := s.UserRepo.FindToken(ctx, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch token of user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	created := make([]time.Time, len(stamps))
	for i, ms := range stamps {
		created[i] = time.UnixMilli(ms).UTC()
	}

	months := MonthlyActivity(now, created, DefaultActivityMonths)
	activity := make([]*contract.MonthActivity, len(months))
	for i, m := range months {
		activity[i] = &contract.MonthActivity{
			Year:  m.Year,
			Month: int(m.Month),
			Label: m.Label,
			Count: m.Count,
		}
	}

	resp := &contract.ProfileResponse{
		User:                 toUserResponse(actor),
		TotalNotes:           total,
		CompletionPercentage: CompletionPercentage(total, incomplete),
		Activity:             activity,
	}
	if token != nil {
		resp.Token = &token.Value
	}
	return resp, nil
}

// Site returns the totals shown on the home page.
func (s *StatsService) Site(ctx context.Context) (*contract.SiteStatsResponse, apierror.ErrorResponse) {
	notes, err := s.NoteRepo.Count(ctx, false)
	if err != nil {
		log.Errorf("failed to count notes: %v", err)
		return nil, apierror.InternalServerError
	}

	public, err := s.NoteRepo.Count(ctx, true)
	if err != nil {
		log.Errorf("failed to count public notes: %v", err)
		return nil, apierror.InternalServerError
	}

	users, err := s.UserRepo.Count(ctx)
	if err != nil {
		log.Errorf("failed to count users: %v", err)
		return nil, apierror.InternalServerError
	}

	return &contract.SiteStatsResponse{
		TotalNotes:  notes,
		TotalPublic: public,
		TotalUsers:  users,
	}, nil
}
