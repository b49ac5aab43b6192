package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

func newAuthEnv(t *testing.T) (*AuthHandler, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	cfg := config.Config{
		JWTSecret:    "test-secret",
		AccessTTLMin: 5,
		BcryptCost:   4, // keep hashing cheap in tests
	}
	return NewAuthHandler(cfg, store), store
}

func TestRegister(t *testing.T) {
	h, _ := newAuthEnv(t)

	rec, got := invoke(t, h.Register, http.MethodPost,
		`{"email":"Rider@Example.com","password":"secret"}`, 0)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "rider@example.com", got["email"])
	require.NotEmpty(t, got["token"])
	require.NotZero(t, got["user_id"])

	// Same address again, case-insensitively, is a conflict.
	rec, got = invoke(t, h.Register, http.MethodPost,
		`{"email":"rider@example.com","password":"other"}`, 0)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "error", got["status"])
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newAuthEnv(t)

	for _, body := range []string{
		`{"email":"","password":"secret"}`,
		`{"email":"rider@example.com","password":""}`,
		`{}`,
	} {
		rec, got := invoke(t, h.Register, http.MethodPost, body, 0)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "error", got["status"])
	}
}

func TestLogin(t *testing.T) {
	h, _ := newAuthEnv(t)

	rec, _ := invoke(t, h.Register, http.MethodPost,
		`{"email":"rider@example.com","password":"secret"}`, 0)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, got := invoke(t, h.Login, http.MethodPost,
		`{"email":"rider@example.com","password":"secret"}`, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, got["token"])

	rec, got = invoke(t, h.Login, http.MethodPost,
		`{"email":"rider@example.com","password":"wrong"}`, 0)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid credentials", got["message"])

	rec, got = invoke(t, h.Login, http.MethodPost,
		`{"email":"nobody@example.com","password":"secret"}`, 0)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid credentials", got["message"])
}

func TestMe(t *testing.T) {
	h, store := newAuthEnv(t)

	uid, err := store.CreateUser(context.Background(), "rider@example.com", "secret", 4)
	require.NoError(t, err)

	rec, got := invoke(t, h.Me, http.MethodGet, "", uid)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "success", got["status"])
	require.Equal(t, float64(uid), got["user_id"])

	// Tokens for deleted or never-registered users are rejected.
	rec, _ = invoke(t, h.Me, http.MethodGet, "", uid+1)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
