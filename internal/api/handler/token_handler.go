package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

// TokenHandler mints bearer tokens for the bootstrap admin account.
type TokenHandler struct {
	service ports.TokenService
}

func NewTokenHandler(service ports.TokenService) *TokenHandler {
	return &TokenHandler{service: service}
}

type authenticateRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authenticateResponse struct {
	Token string `json:"id_token"`
}

// Authenticate handles POST /api/authenticate.
//
// @Summary      Authenticate the bootstrap admin and mint a bearer token
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      authenticateRequest  true  "Credentials"
// @Success      200   {object}  authenticateResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/authenticate [post]
func (h *TokenHandler) Authenticate(c echo.Context) error {
	var req authenticateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.service.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authenticateResponse{Token: token})
}
