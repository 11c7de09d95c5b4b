package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/service"
)

func TestAuthHandler_Register(t *testing.T) {
	svc := new(MockAuthService)
	h := NewAuthHandler(svc)
	e := newTestEcho()
	e.POST("/api/register", h.Register)

	svc.On("Register", mock.Anything, service.RegisterInput{
		Email:    "ada@shop.test",
		Password: "s3cret!",
		Name:     "Ada",
		Address:  model.Address{City: "London"},
	}).Return(&service.AuthResult{
		Token: "tok",
		User:  &model.User{ID: "u1", Email: "ada@shop.test", PasswordHash: "hash", Role: model.RoleUser},
	}, nil)

	rec := serve(e, request(http.MethodPost, "/api/register",
		`{"email":"ada@shop.test","password":"s3cret!","name":"Ada","address":{"city":"London"}}`, nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"tok"`)
	assert.Contains(t, rec.Body.String(), `"id":"u1"`)
	assert.NotContains(t, rec.Body.String(), "hash")
	svc.AssertExpectations(t)
}

func TestAuthHandler_Register_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"email":`, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing password", `{"email":"ada@shop.test","name":"Ada"}`, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad email", `{"email":"nope","password":"s3cret!","name":"Ada"}`, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"email taken", `{"email":"ada@shop.test","password":"s3cret!","name":"Ada"}`, errors.ErrEmailTaken, http.StatusBadRequest, "EMAIL_TAKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			e := newTestEcho()
			e.POST("/api/register", NewAuthHandler(svc).Register)
			if tt.serviceErr != nil {
				svc.On("Register", mock.Anything, mock.Anything).Return(nil, tt.serviceErr)
			}

			rec := serve(e, request(http.MethodPost, "/api/register", tt.body, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.wantCode+`"`)
			assert.Contains(t, rec.Body.String(), `"error":`)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(MockAuthService)
	e := newTestEcho()
	e.POST("/api/login", NewAuthHandler(svc).Login)

	svc.On("Login", mock.Anything, "ada@shop.test", "right").
		Return(&service.AuthResult{Token: "tok", User: &model.User{ID: "u1"}}, nil)
	svc.On("Login", mock.Anything, "ada@shop.test", "wrong").
		Return(nil, errors.ErrInvalidCredentials)

	rec := serve(e, request(http.MethodPost, "/api/login", `{"email":"ada@shop.test","password":"right"}`, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"tok"`)

	rec = serve(e, request(http.MethodPost, "/api/login", `{"email":"ada@shop.test","password":"wrong"}`, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid email or password","code":"INVALID_CREDENTIALS"}`, rec.Body.String())
}
