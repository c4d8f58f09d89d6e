package rest

import (
	"caseLibrary/domain"
	"caseLibrary/internal/middleware"

	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// resolveIdentity prefers the identity set by middleware and falls back to a guest id
// sent in the request body.
func resolveIdentity(c echo.Context, bodyGuestID string) domain.Identity {
	if id, ok := middleware.IdentityFrom(c); ok {
		return id
	}
	if domain.IsGuestIdentifier(bodyGuestID) {
		return domain.Identity{GuestID: bodyGuestID, IsGuest: true}
	}
	return domain.Identity{}
}

func bindAndValidate(c echo.Context, v interface{ Struct(interface{}) error }, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return domain.ValidationError("invalid request body")
	}
	if err := v.Struct(req); err != nil {
		return domain.ValidationError(err.Error())
	}
	return nil
}
