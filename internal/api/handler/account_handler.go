package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/theagilemonkeys/crm-api/internal/core/auth"
	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

// AccountHandler resolves the authenticated principal to its user record.
type AccountHandler struct {
	service ports.UserService
}

func NewAccountHandler(service ports.UserService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Get handles GET /api/account. On first sight of an unseen identity the
// user is provisioned from the token claims.
//
// @Summary      Get the current user's account
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/account [get]
func (h *AccountHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	token, err := auth.FromPrincipal(claims)
	if err != nil {
		return err
	}

	user, err := h.service.ResolveFromToken(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// profileRequest carries the self-service profile fields.
type profileRequest struct {
	FirstName string `json:"first_name" validate:"max=50"`
	LastName  string `json:"last_name"  validate:"max=50"`
	Email     string `json:"email"      validate:"omitempty,email,min=5,max=254"`
	LangKey   string `json:"lang_key"   validate:"omitempty,min=2,max=10"`
	ImageURL  string `json:"image_url"  validate:"max=256"`
}

// Update handles POST /api/account — the current user's own profile.
//
// @Summary      Update the current user's profile
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  profileRequest  true  "Profile fields"
// @Success      200   "updated"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/account [post]
func (h *AccountHandler) Update(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	login, err := ctxLogin(c)
	if err != nil {
		return err
	}

	if err := h.service.UpdateCurrent(c.Request().Context(), login, ports.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		LangKey:   req.LangKey,
		ImageURL:  req.ImageURL,
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}
