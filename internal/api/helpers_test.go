package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/makansehat/backend/internal/api"
	"github.com/makansehat/backend/internal/models"
	"github.com/makansehat/backend/internal/repository"
	"github.com/makansehat/backend/internal/router"
	"github.com/makansehat/backend/internal/service"
	"github.com/makansehat/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	db     *gorm.DB
	engine *gin.Engine
	auth   *service.AuthService
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	log := zap.NewNop()

	store := repository.NewKnowledgeRepository(db)
	ingredients := service.NewIngredientService(store)
	profiles := service.NewProfileService(db)
	auth := service.NewAuthService(db, "test-secret", time.Hour)
	menus := service.NewMenuService(db, ingredients, profiles, nil, time.Minute, log)

	engine := router.SetupRouter(router.Options{
		CORSOrigins: []string{"*"},
		Validator:   auth,
		Health:      api.NewHealthHandler(db, "test", log),
		Handlers: []router.RouteRegistrar{
			api.NewAuthHandler(auth, log),
			api.NewIngredientHandler(ingredients, log),
			api.NewAllergenHandler(service.NewAllergenService(store, ingredients, profiles, log), log),
			api.NewMenuCaseHandler(service.NewMenuCaseService(store, ingredients), log),
			api.NewProfileHandler(profiles, log),
			api.NewMenuHandler(menus, log),
		},
	}, log)

	return &testAPI{db: db, engine: engine, auth: auth}
}

// tokenFor creates a user with the given role and allergens and returns a token.
func (a *testAPI) tokenFor(t *testing.T, role string, allergens ...string) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, a.db, role, allergens, "")
	token, err := a.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (a *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
