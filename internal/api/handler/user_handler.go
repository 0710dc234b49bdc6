package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/mykare/user-registration/internal/api/metrics"
	"github.com/mykare/user-registration/internal/core/domain"
	"github.com/mykare/user-registration/internal/core/ports"
)

const (
	defaultPage = 0
	defaultSize = 10
)

// UserHandler handles HTTP requests for user registration and management.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register creates a new user account with role USER.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Router       /api/v1/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.RegisterUser(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Validate checks credentials and returns a bearer token.
//
// @Summary      Validate credentials
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      validateRequest  true  "Email and password"
// @Success      200   {object}  validationResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      429   {object}  errorBody
// @Router       /api/v1/validate [post]
func (h *UserHandler) Validate(c echo.Context) error {
	var req validateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.ValidateUser(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.ValidationsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.ValidationsTotal.WithLabelValues("locked").Inc()
		default:
			metrics.ValidationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.ValidationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toValidationResponse(result))
}

// List returns one page of registered users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Zero-based page index"  default(0)
// @Param        size  query     int  false  "Page size"              default(10)
// @Success      200   {array}   userResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, size := defaultPage, defaultSize
	if err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("size", &size).
		BindError(); err != nil {
		return domain.NewValidationError("page and size must be integers")
	}

	users, err := h.service.ListUsers(c.Request().Context(), page, size)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Delete removes a user. Only ADMIN callers reach this handler.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Email of the user to delete"
// @Success      200    {object}  deleteResponse
// @Failure      401    {object}  errorBody
// @Failure      403    {object}  errorBody
// @Failure      404    {object}  errorBody
// @Router       /api/v1/users/{email} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	// Echo matches on the raw path, so an encoded "@" arrives as %40.
	email, err := url.PathUnescape(c.Param("email"))
	if err != nil {
		return domain.NewValidationError("Email must be a valid path segment")
	}
	if email == "" {
		return domain.NewValidationError("Email is required")
	}

	result, err := h.service.DeleteUser(c.Request().Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.UserDeletionsTotal.WithLabelValues("not_found").Inc()
		case errors.Is(err, domain.ErrAccessDenied):
			metrics.UserDeletionsTotal.WithLabelValues("forbidden").Inc()
		default:
			metrics.UserDeletionsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.UserDeletionsTotal.WithLabelValues("deleted").Inc()
	return c.JSON(http.StatusOK, toDeleteResponse(result))
}
