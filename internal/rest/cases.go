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
	CaseHandler struct {
		validate    *validator.Validate
		caseService CaseService
	}

	CaseService interface {
		ListCases(ctx context.Context, identity domain.Identity, query domain.CaseQuery, guestProfile *domain.GuestProfile) (domain.CaseListPage, error)
		GetCase(ctx context.Context, id string) (domain.Record, error)
	}

	ListCasesRequest struct {
		Page         int                  `json:"page" validate:"omitempty,gte=1"`
		PageSize     int                  `json:"pageSize" validate:"omitempty,gte=1,lte=50"`
		Sort         string               `json:"sort" validate:"omitempty,oneof=latest popular mostLiked"`
		Tags         []string             `json:"tags"`
		GuestID      string               `json:"guestId"`
		GuestProfile *domain.GuestProfile `json:"guestProfile"`
	}
)

func NewCaseHandler(svc CaseService) *CaseHandler {
	return &CaseHandler{
		validate:    validator.New(),
		caseService: svc,
	}
}

// POST /api/v1/cases
func (h *CaseHandler) ListCases(c echo.Context) error {
	var req ListCasesRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	query := domain.CaseQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
		Sort:     domain.SortCriterion(req.Sort),
		Tags:     req.Tags,
	}

	page, err := h.caseService.ListCases(c.Request().Context(), resolveIdentity(c, req.GuestID), query, req.GuestProfile)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(page))
}

// GET /api/v1/cases/:id
func (h *CaseHandler) GetCase(c echo.Context) error {
	record, err := h.caseService.GetCase(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(record))
}
