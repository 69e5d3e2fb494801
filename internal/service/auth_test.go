package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makansehat/backend/internal/models"
	"github.com/makansehat/backend/internal/testhelpers"
	"github.com/makansehat/backend/internal/types"
)

const testSecret = "test-secret"

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(env.db, testSecret, time.Hour)
	ctx := context.Background()

	resp, err := auth.Register(ctx, &types.RegisterRequest{
		Name:            "Budi",
		Email:           " Budi@Example.com ",
		Password:        "password123",
		Role:            models.RoleAdmin,
		Allergens:       []string{"peanut", "strawberry"},
		CustomAllergies: "kiwi",
	}, false)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "budi@example.com", resp.User.Email)
	assert.Equal(t, models.RoleStudent, resp.User.Role, "only admins choose roles")

	allergens, err := env.profiles.LoadUserAllergens(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"peanut", "strawberry", "kiwi"}, allergens)

	resp, err = auth.Register(ctx, &types.RegisterRequest{
		Name:     "Dapur",
		Email:    "dapur@example.com",
		Password: "password123",
		Role:     models.RoleKitchen,
	}, true)
	require.NoError(t, err)
	assert.Equal(t, models.RoleKitchen, resp.User.Role)

	_, err = auth.Register(ctx, &types.RegisterRequest{
		Name:     "Budi Lagi",
		Email:    "BUDI@example.com",
		Password: "password123",
	}, false)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(env.db, testSecret, time.Hour)

	tests := []struct {
		name string
		req  types.RegisterRequest
	}{
		{"missing name", types.RegisterRequest{Email: "a@example.com", Password: "password123"}},
		{"blank name", types.RegisterRequest{Name: "   ", Email: "a@example.com", Password: "password123"}},
		{"bad email", types.RegisterRequest{Name: "A", Email: "not-an-email", Password: "password123"}},
		{"short password", types.RegisterRequest{Name: "A", Email: "a@example.com", Password: "short"}},
		{"unknown role", types.RegisterRequest{Name: "A", Email: "a@example.com", Password: "password123", Role: "teacher"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(context.Background(), &tt.req, true)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(env.db, testSecret, time.Hour)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, env.db, models.RoleKitchen, nil, "")

	resp, err := auth.Login(ctx, &types.LoginRequest{Email: user.Email, Password: testhelpers.TestPassword})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleKitchen, claims.Role)

	_, err = auth.Login(ctx, &types.LoginRequest{Email: user.Email, Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, &types.LoginRequest{Email: "nobody@example.com", Password: testhelpers.TestPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// the email is normalized before it is checked
	resp, err = auth.Login(ctx, &types.LoginRequest{Email: "  " + strings.ToUpper(user.Email) + " ", Password: testhelpers.TestPassword})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	_, err = auth.Login(ctx, &types.LoginRequest{Email: "not-an-email", Password: testhelpers.TestPassword})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = auth.Login(ctx, &types.LoginRequest{Email: user.Email})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateToken(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(env.db, testSecret, time.Hour)
	user := testhelpers.CreateUser(t, env.db, models.RoleStudent, nil, "")

	t.Run("expired", func(t *testing.T) {
		auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		defer func() { auth.now = time.Now }()

		token, err := auth.GenerateToken(user)
		require.NoError(t, err)
		_, err = auth.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(env.db, "other-secret", time.Hour)
		token, err := other.GenerateToken(user)
		require.NoError(t, err)
		_, err = auth.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := &types.TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			UserID: user.ID,
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = auth.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
