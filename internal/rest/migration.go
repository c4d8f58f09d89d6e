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
	MigrationHandler struct {
		validate         *validator.Validate
		migrationService MigrationService
	}

	MigrationService interface {
		Migrate(ctx context.Context, userIdentifier string, snapshot domain.GuestSnapshot) (domain.MigrationSummary, error)
	}

	MigrateGuestRequest struct {
		GuestID   string          `json:"guestId" validate:"required,startswith=guest_"`
		GuestData *GuestDataInput `json:"guestData" validate:"required"`
	}

	GuestDataInput struct {
		Chats   []domain.GuestChat  `json:"chats"`
		Profile domain.GuestProfile `json:"profile"`
	}

	MigrateGuestResponse struct {
		Success       bool                    `json:"success"`
		MigratedCount domain.MigrationSummary `json:"migratedCount"`
	}
)

func NewMigrationHandler(svc MigrationService) *MigrationHandler {
	return &MigrationHandler{
		validate:         validator.New(),
		migrationService: svc,
	}
}

// POST /api/v1/migrate-guest-data
func (h *MigrationHandler) MigrateGuestData(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok || !id.Authenticated() {
		return domain.UnauthorizedError("must be authenticated to migrate data")
	}

	var req MigrateGuestRequest
	if err := bindAndValidate(c, h.validate, &req); err != nil {
		return err
	}

	snapshot := domain.GuestSnapshot{
		GuestID: req.GuestID,
		Chats:   req.GuestData.Chats,
		Profile: req.GuestData.Profile,
	}

	summary, err := h.migrationService.Migrate(c.Request().Context(), id.UserID, snapshot)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(MigrateGuestResponse{
		Success:       true,
		MigratedCount: summary,
	}))
}
