package rest

import (
	"caseLibrary/domain"
	"context"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	InteractionHandler struct {
		validate           *validator.Validate
		interactionService InteractionService
	}

	InteractionService interface {
		ToggleLike(ctx context.Context, userIdentifier, recordID string) (bool, error)
		ToggleBookmark(ctx context.Context, userIdentifier, recordID string) (bool, error)
		RecordAction(ctx context.Context, userIdentifier, recordID string, action domain.ActionType, duration *float64) error
	}

	ReactionRequest struct {
		RecordID string `json:"recordId" validate:"required"`
		GuestID  string `json:"guestId"`
	}

	UserActionRequest struct {
		RecordID string   `json:"recordId" validate:"required"`
		Action   string   `json:"action" validate:"required,oneof=view like bookmark"`
		Duration *float64 `json:"duration" validate:"omitempty,gte=0"`
		GuestID  string   `json:"guestId"`
	}

	LikeResponse struct {
		Liked   bool `json:"liked"`
		IsGuest bool `json:"isGuest"`
	}

	BookmarkResponse struct {
		Bookmarked bool `json:"bookmarked"`
		IsGuest    bool `json:"isGuest"`
	}

	UserActionResponse struct {
		Success bool `json:"success"`
		IsGuest bool `json:"isGuest"`
	}
)

func NewInteractionHandler(svc InteractionService) *InteractionHandler {
	return &InteractionHandler{
		validate:           validator.New(),
		interactionService: svc,
	}
}

// POST /api/v1/cases/like
func (h *InteractionHandler) ToggleLike(c echo.Context) error {
	var req ReactionRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return err
	}
	if !domain.ValidRecordID(req.RecordID) {
		return domain.ValidationError("invalid record id")
	}

	id := resolveIdentity(c, req.GuestID)
	if id.IsGuest {
		// guest reactions live client-side until migration
		return c.JSON(http.StatusOK, fres.Response.StatusOK(LikeResponse{Liked: true, IsGuest: true}))
	}

	liked, err := h.interactionService.ToggleLike(c.Request().Context(), id.UserID, req.RecordID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(LikeResponse{Liked: liked}))
}

// POST /api/v1/cases/bookmark
func (h *InteractionHandler) ToggleBookmark(c echo.Context) error {
	var req ReactionRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return err
	}
	if !domain.ValidRecordID(req.RecordID) {
		return domain.ValidationError("invalid record id")
	}

	id := resolveIdentity(c, req.GuestID)
	if id.IsGuest {
		return c.JSON(http.StatusOK, fres.Response.StatusOK(BookmarkResponse{Bookmarked: true, IsGuest: true}))
	}

	bookmarked, err := h.interactionService.ToggleBookmark(c.Request().Context(), id.UserID, req.RecordID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(BookmarkResponse{Bookmarked: bookmarked}))
}

// POST /api/v1/user-action
func (h *InteractionHandler) RecordAction(c echo.Context) error {
	var req UserActionRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return err
	}
	if !domain.ValidRecordID(req.RecordID) {
		return domain.ValidationError("invalid record id")
	}

	id := resolveIdentity(c, req.GuestID)
	if id.IsGuest {
		return c.JSON(http.StatusOK, fres.Response.StatusOK(UserActionResponse{Success: true, IsGuest: true}))
	}

	err := h.interactionService.RecordAction(c.Request().Context(), id.UserID, req.RecordID, domain.ActionType(req.Action), req.Duration)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(UserActionResponse{Success: true}))
}
