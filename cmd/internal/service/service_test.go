package service

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"noteshare/cmd/internal/contract"
	"noteshare/cmd/internal/domain/entity"
	"noteshare/cmd/internal/domain/policy"
	"noteshare/cmd/internal/domain/sqlite"
	"noteshare/cmd/internal/domain/sqlite/repository"
	"noteshare/cmd/internal/utils"
	"noteshare/cmd/internal/utils/apierror"
	"noteshare/cmd/internal/utils/uid"
	"noteshare/cmd/internal/utils/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "S3cret!pass"

func TestMain(m *testing.M) {
	if err := uid.Init(1); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fixture struct {
	notes *DefaultNoteService
	users *UserService
	stats *StatsService

	noteRepo *repository.DefaultNoteRepository
	userRepo *repository.DefaultUserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlite.Init(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	noteRepo := repository.NewNoteRepository(db)
	userRepo := repository.NewUserRepository(db)
	validate := validators.New()

	return &fixture{
		notes:    NewNoteService(noteRepo, policy.NewNotePolicy(), validate, NewPagination(2, 3)),
		users:    NewUserService(userRepo, validate, utils.NewTokenIssuer("test-secret", time.Hour)),
		stats:    NewStatsService(noteRepo, userRepo),
		noteRepo: noteRepo,
		userRepo: userRepo,
	}
}

func (f *fixture) register(t *testing.T, username string) *entity.User {
	t.Helper()

	_, apierr := f.users.Register(context.Background(), &contract.CreateUserRequest{
		FirstName: username,
		Username:  username,
		Email:     username + "@example.com",
		Password1: testPassword,
		Password2: testPassword,
	})
	require.Nil(t, apierr)

	user, err := f.userRepo.FindByUsername(context.Background(), username)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func (f *fixture) create(t *testing.T, actor *entity.User, title string, public bool) *contract.NoteResponse {
	t.Helper()

	note, apierr := f.notes.CreateNote(context.Background(), actor, &contract.NoteRequest{
		Title:    title,
		Body:     "<p>" + title + "</p>",
		IsPublic: public,
	})
	require.Nil(t, apierr)
	return note
}

func TestNoteService_CreateSanitisesBody(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	note, apierr := f.notes.CreateNote(context.Background(), alice, &contract.NoteRequest{
		Title: "  groceries  ",
		Body:  `<p onclick="x()">milk</p><script>alert(1)</script>`,
	})
	require.Nil(t, apierr)

	assert.Equal(t, "groceries", note.Title)
	assert.Equal(t, "<p>milk</p>", note.Body)
	assert.Equal(t, "alice", note.Owner)
	assert.Equal(t, note.CreatedAt, note.EditedAt)
	assert.False(t, note.IsPublic)
}

func TestNoteService_CreateRequiresActorAndTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, apierr := f.notes.CreateNote(ctx, nil, &contract.NoteRequest{Title: "x"})
	assert.Equal(t, apierror.UnauthorizedError, apierr)

	alice := f.register(t, "alice")
	_, apierr = f.notes.CreateNote(ctx, alice, &contract.NoteRequest{Title: "   "})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
}

func TestNoteService_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	private := f.create(t, alice, "secret", false)
	public := f.create(t, alice, "shared", true)

	_, apierr := f.notes.GetNote(ctx, bob, private.ID)
	assert.Equal(t, apierror.NotFoundError, apierr)

	_, apierr = f.notes.GetNote(ctx, nil, private.ID)
	assert.Equal(t, apierror.NotFoundError, apierr)

	got, apierr := f.notes.GetNote(ctx, alice, private.ID)
	require.Nil(t, apierr)
	assert.Equal(t, "secret", got.Title)

	got, apierr = f.notes.GetNote(ctx, nil, public.ID)
	require.Nil(t, apierr)
	assert.Equal(t, int64(1), got.ViewCount)

	// Private routes never address notes of other users.
	_, apierr = f.notes.GetOwnedNote(ctx, bob, public.ID)
	assert.Equal(t, apierror.NotFoundError, apierr)

	_, apierr = f.notes.GetNote(ctx, alice, 424242)
	assert.Equal(t, apierror.NotFoundError, apierr)
}

func TestNoteService_UpdateAndDeleteOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	public := f.create(t, alice, "shared", true)
	private := f.create(t, alice, "secret", false)

	title := "hijacked"
	_, apierr := f.notes.UpdateNote(ctx, bob, public.ID, &contract.UpdateNoteRequest{Title: &title})
	assert.Equal(t, apierror.ForbiddenError, apierr)

	_, apierr = f.notes.UpdateNote(ctx, bob, private.ID, &contract.UpdateNoteRequest{Title: &title})
	assert.Equal(t, apierror.NotFoundError, apierr)

	assert.Equal(t, apierror.ForbiddenError, f.notes.DeleteNote(ctx, bob, public.ID))
	assert.Equal(t, apierror.NotFoundError, f.notes.DeleteNote(ctx, bob, private.ID))

	stored, err := f.noteRepo.FindByID(ctx, public.ID)
	require.NoError(t, err)
	assert.Equal(t, "shared", stored.Title)

	require.Nil(t, f.notes.DeleteNote(ctx, alice, public.ID))
	stored, err = f.noteRepo.FindByID(ctx, public.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestNoteService_UpdateTouchesEditedAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	note := f.create(t, alice, "draft", false)

	// Resubmitting identical values is not an edit.
	same := "draft"
	unchanged, apierr := f.notes.UpdateNote(ctx, alice, note.ID, &contract.UpdateNoteRequest{Title: &same})
	require.Nil(t, apierr)
	assert.Equal(t, note.EditedAt, unchanged.EditedAt)

	time.Sleep(5 * time.Millisecond)

	done := true
	body := "<b>final</b><iframe></iframe>"
	updated, apierr := f.notes.UpdateNote(ctx, alice, note.ID, &contract.UpdateNoteRequest{
		IsCompleted: &done,
		Body:        &body,
	})
	require.Nil(t, apierr)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "<b>final</b>", updated.Body)
	assert.Equal(t, "draft", updated.Title)

	stored, err := f.noteRepo.FindByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Greater(t, stored.EditedAt, stored.CreatedAt)
}

func TestNoteService_ToggleLike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	public := f.create(t, alice, "shared", true)
	private := f.create(t, alice, "secret", false)

	_, apierr := f.notes.ToggleLike(ctx, nil, public.ID)
	assert.Equal(t, apierror.UnauthorizedError, apierr)

	_, apierr = f.notes.ToggleLike(ctx, bob, private.ID)
	assert.Equal(t, apierror.NotFoundError, apierr)

	like, apierr := f.notes.ToggleLike(ctx, bob, public.ID)
	require.Nil(t, apierr)
	assert.True(t, like.Liked)
	assert.Equal(t, 1, like.LikeCount)

	like, apierr = f.notes.ToggleLike(ctx, alice, public.ID)
	require.Nil(t, apierr)
	assert.Equal(t, 2, like.LikeCount)

	got, apierr := f.notes.GetNote(ctx, bob, public.ID)
	require.Nil(t, apierr)
	assert.True(t, got.Liked)

	like, apierr = f.notes.ToggleLike(ctx, bob, public.ID)
	require.Nil(t, apierr)
	assert.False(t, like.Liked)
	assert.Equal(t, 1, like.LikeCount)

	// The owner may like their private note.
	like, apierr = f.notes.ToggleLike(ctx, alice, private.ID)
	require.Nil(t, apierr)
	assert.True(t, like.Liked)
}

func TestNoteService_ListPublicPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	first := f.create(t, alice, "one", true)
	f.create(t, alice, "two", true)
	f.create(t, alice, "three", true)
	f.create(t, alice, "hidden", false)

	_, apierr := f.notes.ToggleLike(ctx, bob, first.ID)
	require.Nil(t, apierr)

	page, apierr := f.notes.ListPublicNotes(ctx, bob, entity.SortByLikes, contract.PageRequest{})
	require.Nil(t, apierr)
	assert.Equal(t, int64(3), page.Count)
	assert.Equal(t, 2, page.PageSize)
	require.Len(t, page.Results, 2)
	assert.Equal(t, first.ID, page.Results[0].ID)
	assert.True(t, page.Results[0].Liked)
	assert.False(t, page.Results[1].Liked)
	require.NotNil(t, page.Next)
	assert.Equal(t, 2, *page.Next)
	assert.Nil(t, page.Previous)

	page, apierr = f.notes.ListPublicNotes(ctx, nil, "", contract.PageRequest{Page: 2, PageSize: 50})
	require.Nil(t, apierr)
	assert.Equal(t, 3, page.PageSize) // capped
	assert.Empty(t, page.Results)
	require.NotNil(t, page.Previous)
	assert.Nil(t, page.Next)

	_, apierr = f.notes.ListPublicNotes(ctx, nil, "popular", contract.PageRequest{})
	assert.Equal(t, apierror.InvalidSortError, apierr)
}

func TestNoteService_ListOwnedFavoritesFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	fav := f.create(t, alice, "fav", false)
	f.create(t, alice, "recent", false)
	f.create(t, bob, "not mine", true)

	yes := true
	_, apierr := f.notes.UpdateNote(ctx, alice, fav.ID, &contract.UpdateNoteRequest{IsFavorite: &yes})
	require.Nil(t, apierr)

	page, apierr := f.notes.ListOwnedNotes(ctx, alice, contract.PageRequest{})
	require.Nil(t, apierr)
	assert.Equal(t, int64(2), page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, fav.ID, page.Results[0].ID)

	_, apierr = f.notes.ListOwnedNotes(ctx, nil, contract.PageRequest{})
	assert.Equal(t, apierror.UnauthorizedError, apierr)
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, apierr := f.users.Register(ctx, &contract.CreateUserRequest{
		Username:  "alice",
		Email:     "other@example.com",
		Password1: testPassword,
		Password2: testPassword,
	})
	assert.Equal(t, apierror.UsernameTakenError, apierr)

	_, apierr = f.users.Register(ctx, &contract.CreateUserRequest{
		Username:  "carol",
		Email:     "carol@example.com",
		Password1: testPassword,
		Password2: "different!A1",
	})
	require.NotNil(t, apierr)
	assert.Contains(t, apierr.(*apierror.StructuredError).Errors, "password2")

	_, apierr = f.users.Login(ctx, &contract.UserLoginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, apierror.CredentialsMismatchError, apierr)

	first, apierr := f.users.Login(ctx, &contract.UserLoginRequest{Username: "alice", Password: testPassword})
	require.Nil(t, apierr)

	second, apierr := f.users.Login(ctx, &contract.UserLoginRequest{Username: "alice", Password: testPassword})
	require.Nil(t, apierr)
	assert.Equal(t, first.Token, second.Token)

	user, apierr := f.users.AuthenticateToken(ctx, "Bearer "+first.Token)
	require.Nil(t, apierr)
	assert.Equal(t, "alice", user.Username)

	user, apierr = f.users.AuthenticateBasic(ctx, "alice", testPassword)
	require.Nil(t, apierr)
	assert.Equal(t, "alice", user.Username)

	_, apierr = f.users.AuthenticateBasic(ctx, "alice", "nope")
	assert.Equal(t, apierror.InvalidBasicAuthError, apierr)
}

func TestUserService_RegenerateAndLogoutRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	login, apierr := f.users.Login(ctx, &contract.UserLoginRequest{Username: "alice", Password: testPassword})
	require.Nil(t, apierr)

	fresh, apierr := f.users.RegenerateToken(ctx, alice)
	require.Nil(t, apierr)
	assert.NotEqual(t, login.Token, fresh.Token)

	_, apierr = f.users.AuthenticateToken(ctx, login.Token)
	assert.Equal(t, apierror.InvalidAuthTokenError, apierr)

	_, apierr = f.users.AuthenticateToken(ctx, fresh.Token)
	require.Nil(t, apierr)

	require.Nil(t, f.users.Logout(ctx, alice))
	_, apierr = f.users.AuthenticateToken(ctx, fresh.Token)
	assert.Equal(t, apierror.InvalidAuthTokenError, apierr)
}

func TestUserService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	login, apierr := f.users.Login(ctx, &contract.UserLoginRequest{Username: "alice", Password: testPassword})
	require.Nil(t, apierr)

	name := "Alice"
	_, apierr = f.users.UpdateProfile(ctx, alice, &contract.UpdateProfileRequest{FirstName: &name, Password: "Wrong!pass1"})
	assert.Equal(t, apierror.WrongOldPasswordError, apierr)

	// A wrong current password logs the user out.
	_, apierr = f.users.AuthenticateToken(ctx, login.Token)
	assert.Equal(t, apierror.InvalidAuthTokenError, apierr)

	newPassword := "N3w!password"
	resp, apierr := f.users.UpdateProfile(ctx, alice, &contract.UpdateProfileRequest{
		FirstName:   &name,
		Password:    testPassword,
		NewPassword: &newPassword,
	})
	require.Nil(t, apierr)
	assert.Equal(t, "Alice", resp.FirstName)

	_, apierr = f.users.Login(ctx, &contract.UserLoginRequest{Username: "alice", Password: newPassword})
	assert.Nil(t, apierr)
}

func TestStatsService_Profile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	f.stats.now = func() time.Time { return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC) }

	stamps := []time.Time{
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.November, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC),
	}
	for i, at := range stamps {
		ms := at.UnixMilli()
		require.NoError(t, f.noteRepo.Create(ctx, &entity.Note{
			ID:          uid.Generate(),
			Owner:       "alice",
			Title:       "n",
			IsCompleted: i != 0,
			CreatedAt:   ms,
			EditedAt:    ms,
		}))
	}

	profile, apierr := f.stats.Profile(ctx, alice)
	require.Nil(t, apierr)
	assert.Equal(t, int64(4), profile.TotalNotes)
	assert.Equal(t, 75, profile.CompletionPercentage)
	require.Len(t, profile.Activity, 6)
	assert.Equal(t, "October", profile.Activity[0].Label)
	assert.Equal(t, 1, profile.Activity[1].Count)
	assert.Equal(t, 2, profile.Activity[5].Count)
	require.NotNil(t, profile.Token)

	_, apierr = f.stats.Profile(ctx, nil)
	assert.Equal(t, apierror.UnauthorizedError, apierr)
}

func TestStatsService_Site(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	f.register(t, "bob")
	f.create(t, alice, "a", true)
	f.create(t, alice, "b", false)

	site, apierr := f.stats.Site(context.Background())
	require.Nil(t, apierr)
	assert.Equal(t, int64(2), site.TotalNotes)
	assert.Equal(t, int64(1), site.TotalPublic)
	assert.Equal(t, int64(2), site.TotalUsers)
}

func TestUserService_PasswordByteLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 64 characters but 124 bytes, past what bcrypt accepts.
	long := "Aa1!" + strings.Repeat("é", 60)

	_, apierr := f.users.Register(ctx, &contract.CreateUserRequest{
		Username:  "carol",
		Email:     "carol@example.com",
		Password1: long,
		Password2: long,
	})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
	assert.Contains(t, apierr.(*apierror.StructuredError).Errors, "password1")

	alice := f.register(t, "alice")
	_, apierr = f.users.UpdateProfile(ctx, alice, &contract.UpdateProfileRequest{
		Password:    testPassword,
		NewPassword: &long,
	})
	require.NotNil(t, apierr)
	assert.Equal(t, 400, apierr.Code())
	assert.Contains(t, apierr.(*apierror.StructuredError).Errors, "newpassword")

	// Multibyte passwords within 72 bytes are fine.
	fits := "Aa1!" + strings.Repeat("é", 34)
	_, apierr = f.users.UpdateProfile(ctx, alice, &contract.UpdateProfileRequest{
		Password:    testPassword,
		NewPassword: &fits,
	})
	require.Nil(t, apierr)

	_, apierr = f.users.Login(ctx, &contract.UserLoginRequest{Username: "alice", Password: fits})
	assert.Nil(t, apierr)
}

// staleUserRepository reports every username as free, as a concurrent
// registration that has not committed yet would.
type staleUserRepository struct {
	*repository.DefaultUserRepository
}

func (staleUserRepository) ExistsByUsername(context.Context, string) (bool, error) {
	return false, nil
}

func TestUserService_RegisterDuplicateAfterCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	users := NewUserService(staleUserRepository{f.userRepo}, validators.New(), f.users.Tokens)
	_, apierr := users.Register(ctx, &contract.CreateUserRequest{
		Username:  "alice",
		Email:     "again@example.com",
		Password1: testPassword,
		Password2: testPassword,
	})
	assert.Equal(t, apierror.UsernameTakenError, apierr)
}

func TestNoteService_ListPastTheEndIsEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	f.create(t, alice, "one", true)
	f.create(t, alice, "two", false)

	page, apierr := f.notes.ListPublicNotes(ctx, nil, entity.SortByDate, contract.PageRequest{Page: math.MaxInt})
	require.Nil(t, apierr)
	assert.Empty(t, page.Results)
	assert.Equal(t, int64(1), page.Count)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)

	owned, apierr := f.notes.ListOwnedNotes(ctx, alice, contract.PageRequest{Page: math.MaxInt})
	require.Nil(t, apierr)
	assert.Empty(t, owned.Results)
	assert.Equal(t, int64(2), owned.Count)
}
