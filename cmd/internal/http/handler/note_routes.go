package handler

import (
	"context"
	"net/http"
	"strings"

	"noteshare/cmd/internal/contract"
	"noteshare/cmd/internal/domain/entity"
	"noteshare/cmd/internal/utils"
	"noteshare/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

// NoteService receives the resolved *entity.User of the request, nil for
// anonymous callers on public routes.
type NoteService interface {
	CreateNote(ctx context.Context, actor *entity.User, req *contract.NoteRequest) (*contract.NoteResponse, apierror.ErrorResponse)
	UpdateNote(ctx context.Context, actor *entity.User, noteID int64, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse)
	DeleteNote(ctx context.Context, actor *entity.User, noteID int64) apierror.ErrorResponse
	GetNote(ctx context.Context, actor *entity.User, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse)
	GetOwnedNote(ctx context.Context, actor *entity.User, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse)
	ListPublicNotes(ctx context.Context, actor *entity.User, sort entity.NoteSort, req contract.PageRequest) (*contract.NotePage, apierror.ErrorResponse)
	ListOwnedNotes(ctx context.Context, actor *entity.User, req contract.PageRequest) (*contract.NotePage, apierror.ErrorResponse)
	ToggleLike(ctx context.Context, actor *entity.User, noteID int64) (*contract.LikeResponse, apierror.ErrorResponse)
}

type DefaultNoteRoute struct {
	NoteService NoteService
}

func NewNoteDefault(noteService NoteService) *DefaultNoteRoute {
	return &DefaultNoteRoute{NoteService: noteService}
}

func (n *DefaultNoteRoute) ListPublic(c echo.Context) error {
	page, perr := parsePage(c)
	if perr != nil {
		return respondError(c, perr)
	}

	sort := entity.NoteSort(strings.ToLower(strings.TrimSpace(c.QueryParam("sort"))))
	notes, apierr := n.NoteService.ListPublicNotes(c.Request().Context(), utils.GetOptionalUser(c), sort, page)
	if apierr != nil {
		return respondError(c, apierr)
	}
	return c.JSON(http.StatusOK, notes)
}

func (n *DefaultNoteRoute) GetPublic(c echo.Context) error {
	id, perr := parseID(c)
	if perr != nil {
		return respondError(c, perr)
	}

	note, apierr := n.NoteService.GetNote(c.Request().Context(), utils.GetOptionalUser(c), id)
	if apierr != nil {
		return respondError(c, apierr)
	}
	return c.JSON(http.StatusOK, note)
}

func (n *DefaultNoteRoute) ListOwned(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return respondError(c, cerr)
	}

	page, perr := parsePage(c)
	if perr != nil {
		return respondError(c, perr)
	}

	notes, apierr := n.NoteService.ListOwnedNotes(c.Request().Context(), user, page)
	if apierr != nil {
		return respondError(c, apierr)
	}
	return c.JSON(http.StatusOK, notes)
}

func (n *DefaultNoteRoute) GetOwned(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return respondError(c, cerr)
	}

	id, perr := parseID(c)
	if perr != nil {
		return respondError(c, perr)
	}

	note, apierr := n.NoteService.GetOwnedNote(c.Request().Context(), user, id)
	if apierr != nil {
		return respondError(c, apierr)
	}
	return c.JSON(http.StatusOK, note)
}

func (n *DefaultNoteRoute) CreateNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return respondError(c, cerr)
	}

	var req contract.NoteRequest
	if berr := bindBody(c, &req); berr != nil {
		return respondError(c, berr)
	}

	note, apierr := n.NoteService.CreateNote(c.Request().Context(), user, &req)
	if apierr != nil {
		return respondError(c, apierr)
	}
	return c.JSON(http.StatusCreated, note)
}

func (n *DefaultNoteRoute) UpdateNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return respondError(c, cerr)
	}

	id, perr := parseID(c)
	if perr != nil {
		return respondError(c, perr)
	}

	var req contract.UpdateNoteRequest
	if berr := bindBody(c, &req); berr != nil {
		return respondError(c, berr)
	}

	note, apierr := n.NoteService.UpdateNote(c.Request().Context(), user, id, &req)
	if apierr != nil {
		return respondError(c, apierr)
	}
	return c.JSON(http.StatusOK, note)
}

func (n *DefaultNoteRoute) DeleteNote(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return respondError(c, cerr)
	}

	id, perr := parseID(c)
	if perr != nil {
		return respondError(c, perr)
	}

	if apierr := n.NoteService.DeleteNote(c.Request().Context(), user, id); apierr != nil {
		return respondError(c, apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (n *DefaultNoteRoute) ToggleLike(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return respondError(c, cerr)
	}

	id, perr := parseID(c)
	if perr != nil {
		return respondError(c, perr)
	}

	like, apierr := n.NoteService.ToggleLike(c.Request().Context(), user, id)
	if apierr != nil {
		return respondError(c, apierr)
	}
	return c.JSON(http.StatusOK, like)
}
