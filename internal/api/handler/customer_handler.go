package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/theagilemonkeys/crm-api/internal/api/metrics"
	"github.com/theagilemonkeys/crm-api/internal/core/ports"
)

// CustomerHandler handles HTTP requests for customer management.
type CustomerHandler struct {
	service ports.CustomerService
}

func NewCustomerHandler(service ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// List handles GET /api/customers.
//
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  listCustomersResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	customers, total, err := h.service.FindAll(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	data := make([]customerResponse, len(customers))
	for i, cu := range customers {
		data[i] = toCustomerResponse(cu)
	}
	return c.JSON(http.StatusOK, listCustomersResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages(total, limit),
		},
	})
}

// Get handles GET /api/customers/:id.
//
// @Summary      Get a customer by id
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Customer id"
// @Success      200  {object}  customerResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := customerID(c)
	if err != nil {
		return err
	}

	customer, err := h.service.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// Create handles POST /api/customers.
//
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      customerRequest  true  "Customer details"
// @Success      201   {object}  customerResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerRequest
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

	customer, err := h.service.Create(c.Request().Context(), actor, ports.CustomerInput{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		LangKey:   req.LangKey,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

// Update handles PUT /api/customers.
//
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      customerRequest  true  "Customer details"
// @Success      201   {object}  customerResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/customers [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	var req customerRequest
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

	customer, err := h.service.Update(c.Request().Context(), actor, ports.CustomerInput{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		LangKey:   req.LangKey,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

// Delete handles DELETE /api/customers/:id. Deleting an absent id
// succeeds.
//
// @Summary      Delete a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Customer id"
// @Success      200  "deleted"
// @Failure      403  {object}  errorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := customerID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// UploadImage handles POST /api/customers/:id/image with a multipart form
// field named "image".
//
// @Summary      Upload a customer profile image
// @Tags         customers
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int   true  "Customer id"
// @Param        image  formData  file  true  "Image file"
// @Success      200    {object}  customerResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/customers/{id}/image [post]
func (h *CustomerHandler) UploadImage(c echo.Context) error {
	id, err := customerID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	if fileHeader.Size == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is empty")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is unreadable")
	}
	defer file.Close()

	actor, err := ctxLogin(c)
	if err != nil {
		return err
	}

	customer, err := h.service.UploadImage(c.Request().Context(), actor, id,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		metrics.ImageUploadsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.ImageUploadsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

func customerID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}
	return id, nil
}

func toCustomerResponse(cu *ports.CustomerResult) customerResponse {
	return customerResponse{
		ID:             cu.ID,
		FirstName:      cu.FirstName,
		LastName:       cu.LastName,
		Email:          cu.Email,
		LangKey:        cu.LangKey,
		ImageURL:       cu.ImageURL,
		CreatedBy:      cu.CreatedBy,
		CreatedAt:      cu.CreatedAt,
		LastModifiedBy: cu.LastModifiedBy,
		LastModifiedAt: cu.LastModifiedAt,
	}
}
