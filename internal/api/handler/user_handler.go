package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  listUsersResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	users, total, err := h.service.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	data := make([]userResponse, len(users))
	for i, u := range users {
		data[i] = toUserResponse(u)
	}
	return c.JSON(http.StatusOK, listUsersResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages(total, limit),
		},
	})
}

// Get handles GET /api/users/:login.
//
// @Summary      Get a user by login
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        login  path      string  true  "User login"
// @Success      200    {object}  userResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/users/{login} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetByLogin(c.Request().Context(), c.Param("login"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Create handles POST /api/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := ctxLogin(c)
	if err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), actor, ports.UserInput{
		ID:        req.ID,
		Login:     req.Login,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		LangKey:   req.LangKey,
		ImageURL:  req.ImageURL,
		Activated: req.Activated,
		Roles:     req.Authorities,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Update handles PUT /api/users/:login.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        login  path      string             true  "User login"
// @Param        body   body      updateUserRequest  true  "User details"
// @Success      201    {object}  userResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/users/{login} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, err := ctxLogin(c)
	if err != nil {
		return err
	}

	// The path parameter names the target; the body login only matters on
	// the legacy overwrite path.
	in := ports.UserInput{
		ID:        req.ID,
		Login:     req.Login,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		LangKey:   req.LangKey,
		ImageURL:  req.ImageURL,
		Activated: req.Activated,
		Roles:     req.Authorities,
	}
	if in.ID == "" {
		target, err := h.service.GetByLogin(c.Request().Context(), c.Param("login"))
		if err != nil {
			return err
		}
		in.ID = target.ID
	}

	user, err := h.service.Update(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Delete handles DELETE /api/users/:login. Deleting an absent login
// succeeds.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        login  path  string  true  "User login"
// @Success      200    "deleted"
// @Failure      403    {object}  errorResponse
// @Router       /api/users/{login} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("login")); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// Authorities handles GET /api/users/authorities.
//
// @Summary      List the role names known to the system
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   string
// @Failure      403  {object}  errorResponse
// @Router       /api/users/authorities [get]
func (h *UserHandler) Authorities(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Authorities())
}

func toUserResponse(u *ports.UserResult) userResponse {
	return userResponse{
		ID:             u.ID,
		Login:          u.Login,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		LangKey:        u.LangKey,
		ImageURL:       u.ImageURL,
		Activated:      u.Activated,
		Authorities:    u.Roles,
		CreatedBy:      u.CreatedBy,
		CreatedAt:      u.CreatedAt,
		LastModifiedBy: u.LastModifiedBy,
		LastModifiedAt: u.LastModifiedAt,
	}
}
