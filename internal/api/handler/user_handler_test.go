package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mykare/user-registration/internal/core/domain"
	"github.com/mykare/user-registration/internal/core/ports"
)

type stubUserService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	validateFn func(ctx context.Context, email, password string) (*ports.ValidationResult, error)
	listFn     func(ctx context.Context, page, size int) ([]*domain.User, error)
	deleteFn   func(ctx context.Context, email string) (*ports.DeleteResult, error)
}

func (s *stubUserService) RegisterUser(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) ValidateUser(ctx context.Context, email, password string) (*ports.ValidationResult, error) {
	return s.validateFn(ctx, email, password)
}

func (s *stubUserService) ListUsers(ctx context.Context, page, size int) ([]*domain.User, error) {
	return s.listFn(ctx, page, size)
}

func (s *stubUserService) DeleteUser(ctx context.Context, email string) (*ports.DeleteResult, error) {
	return s.deleteFn(ctx, email)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestUserHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Name != "Alice" || in.Email != "a@x.com" || in.Gender != "female" || in.Password != "p1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 1, Name: in.Name, Email: in.Email, Gender: domain.GenderFemale, Role: domain.RoleUser, PasswordHash: "secret-hash"}, nil
		},
	}
	h := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/register", `{"name":"Alice","email":"a@x.com","gender":"female","password":"p1"}`), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-hash") || strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks the password hash: %s", rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(1) || resp["email"] != "a@x.com" || resp["gender"] != "FEMALE" || resp["role"] != "USER" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Register_ValidationFailure(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/register", `{"name":"","email":"not-an-email","gender":"male","password":"p"}`), httptest.NewRecorder())

	err := h.Register(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	msg := ve.Error()
	if !strings.Contains(msg, "Name is required") || !strings.Contains(msg, "Email must be valid") {
		t.Fatalf("unexpected messages: %q", msg)
	}
}

func TestUserHandler_Register_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/register", "not-json"), httptest.NewRecorder())

	var ve *domain.ValidationError
	if err := h.Register(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserHandler_Register_Duplicate(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrDuplicateUser
		},
	}
	h := NewUserHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/register", `{"name":"Bob","email":"b@x.com","gender":"male","password":"p"}`), httptest.NewRecorder())

	if err := h.Register(c); !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestUserHandler_Validate_Success(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		validateFn: func(ctx context.Context, email, password string) (*ports.ValidationResult, error) {
			if email != "a@x.com" || password != "p1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.ValidationResult{Message: "User validated successfully", Token: "tok", ExpirationAfter: "1 hour"}, nil
		},
	}
	h := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/validate", `{"email":"a@x.com","password":"p1"}`), rec)

	if err := h.Validate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok" || resp["expirationAfter"] != "1 hour" || resp["message"] != "User validated successfully" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Validate_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		validateFn: func(ctx context.Context, email, password string) (*ports.ValidationResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewUserHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/validate", `{"email":"a@x.com","password":"bad"}`), httptest.NewRecorder())

	if err := h.Validate(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserHandler_List_Defaults(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		listFn: func(ctx context.Context, page, size int) ([]*domain.User, error) {
			if page != 0 || size != 10 {
				t.Fatalf("expected defaults 0/10, got %d/%d", page, size)
			}
			return []*domain.User{}, nil
		},
	}
	h := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/users", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestUserHandler_List_QueryParams(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		listFn: func(ctx context.Context, page, size int) ([]*domain.User, error) {
			if page != 2 || size != 5 {
				t.Fatalf("expected 2/5, got %d/%d", page, size)
			}
			return []*domain.User{{ID: 11, Name: "K", Email: "k@x.com", Gender: domain.GenderOther, Role: domain.RoleUser}}, nil
		},
	}
	h := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/users?page=2&size=5", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["email"] != "k@x.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_List_NonNumericPage(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		listFn: func(ctx context.Context, page, size int) ([]*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/users?page=abc", nil), httptest.NewRecorder())

	var ve *domain.ValidationError
	if err := h.List(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, email string) (*ports.DeleteResult, error) {
			if email != "b@x.com" {
				t.Fatalf("unexpected email %s", email)
			}
			return &ports.DeleteResult{Email: email, Message: "User deleted successfully"}, nil
		},
	}
	h := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetPath("/api/v1/users/:email")
	c.SetParamNames("email")
	c.SetParamValues("b@x.com")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "b@x.com" || resp["message"] != "User deleted successfully" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Delete_NotFound(t *testing.T) {
	e := newEcho()
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, email string) (*ports.DeleteResult, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub)

	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
	c.SetParamNames("email")
	c.SetParamValues("ghost@x.com")

	if err := h.Delete(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Delete_DecodesEncodedEmail(t *testing.T) {
	e := newEcho()
	var got string
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, email string) (*ports.DeleteResult, error) {
			got = email
			return &ports.DeleteResult{Email: email, Message: "User deleted successfully"}, nil
		},
	}
	h := NewUserHandler(stub)

	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
	c.SetParamNames("email")
	c.SetParamValues("b%40x.com")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "b@x.com" {
		t.Fatalf("service received %q, want %q", got, "b@x.com")
	}
}

func TestUserHandler_Delete_MalformedEscape(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubUserService{})

	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
	c.SetParamNames("email")
	c.SetParamValues("b%4x.com")

	var ve *domain.ValidationError
	if err := h.Delete(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
