package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/14kear/online_voting/polls-service/internal/lib/jwt"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLogin(t *testing.T) {
	s := newTestServer(t)

	email := gofakeit.Email()
	password := gofakeit.Password(true, true, true, true, false, 10)

	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": email, "password": password})
	assertMessage(t, w, http.StatusCreated, "User registered")

	w = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": email, "password": password})
	assertMessage(t, w, http.StatusBadRequest, "Email already registered")

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code)

	token, ok := decode(t, w)["token"].(string)
	require.True(t, ok)

	userID, err := jwt.NewVerifier(testSecret).Verify(context.Background(), token)
	require.NoError(t, err)
	assert.NotEmpty(t, userID)

	t.Run("token opens private routes", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/polls", "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)

		req := map[string]any{"question": "q", "options": []string{"a", "b"}, "startDate": start, "endDate": end}
		w = s.doWithToken(http.MethodPost, "/api/polls", token, req)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, userID, decode(t, w)["createdBy"])
	})
}

func TestRegisterLogin_Failures(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		msg    string
	}{
		{
			name:   "register missing password",
			path:   "/api/auth/register",
			body:   map[string]string{"email": gofakeit.Email()},
			status: http.StatusBadRequest,
			msg:    "Email and password required",
		},
		{
			name:   "register empty body",
			path:   "/api/auth/register",
			body:   map[string]string{},
			status: http.StatusBadRequest,
			msg:    "Email and password required",
		},
		{
			name:   "register malformed",
			path:   "/api/auth/register",
			body:   `{"email":`,
			status: http.StatusBadRequest,
			msg:    "invalid input",
		},
		{
			name:   "login missing email",
			path:   "/api/auth/login",
			body:   map[string]string{"password": "secret"},
			status: http.StatusBadRequest,
			msg:    "Email and password required",
		},
		{
			name:   "login unknown user",
			path:   "/api/auth/login",
			body:   map[string]string{"email": gofakeit.Email(), "password": "secret"},
			status: http.StatusBadRequest,
			msg:    "Invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, tt.path, "", tt.body)
			assertMessage(t, w, tt.status, tt.msg)
		})
	}

	t.Run("login wrong password", func(t *testing.T) {
		email := gofakeit.Email()
		w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"email": email, "password": "right"})
		require.Equal(t, http.StatusCreated, w.Code)

		w = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "wrong"})
		assertMessage(t, w, http.StatusBadRequest, "Invalid credentials")
	})
}
