package rest

import (
	"caseLibrary/domain"
	"caseLibrary/internal/middleware"
	"context"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendHandler struct {
		validate         *validator.Validate
		recommendService RecommendService
	}

	RecommendService interface {
		RecommendPage(ctx context.Context, userIdentifier string, page, pageSize int) (domain.RecommendationPage, error)
		DebugRecommend(ctx context.Context, userIdentifier string) ([]domain.DebugRecommendation, error)
	}

	RecommendRequest struct {
		Page     int `query:"page" validate:"omitempty,gte=1"`
		PageSize int `query:"pageSize" validate:"omitempty,gte=1,lte=50"`
	}
)

func NewRecommendHandler(svc RecommendService) *RecommendHandler {
	return &RecommendHandler{
		validate:         validator.New(),
		recommendService: svc,
	}
}

// GET /api/v1/recommendations?page=&pageSize=
func (h *RecommendHandler) Recommend(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok || !id.Authenticated() {
		return domain.UnauthorizedError("sign in to get recommendations")
	}

	var req RecommendRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return err
	}
	if req.Page == 0 {
		req.Page = 1
	}

	page, err := h.recommendService.RecommendPage(c.Request().Context(), id.UserID, req.Page, req.PageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(page))
}

// GET /api/v1/recommendations/debug
func (h *RecommendHandler) DebugRecommend(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok || !id.Authenticated() {
		return domain.UnauthorizedError("sign in to get recommendations")
	}

	recs, err := h.recommendService.DebugRecommend(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}
