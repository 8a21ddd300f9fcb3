package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medvault/dicom-server/internal/model"
	"github.com/medvault/dicom-server/internal/testutil"
)

// MockTokenManager mocks the model.TokenManager interface
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(userID int64) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) ParseAccessToken(tokenString string) (int64, error) {
	args := m.Called(tokenString)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserStore mocks the model.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func newProtectedEngine(tokenManager model.TokenManager, userStore model.UserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(NewAuthenticate(tokenManager, userStore, testutil.MakeNoopLogger()).Handle())
	engine.GET("/probe", func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return engine
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid token reaches the handler", func(t *testing.T) {
		tokenManager := &MockTokenManager{}
		tokenManager.On("ParseAccessToken", "good-token").Return(int64(7), nil)

		userStore := &MockUserStore{}
		userStore.On("GetByID", mock.Anything, int64(7)).
			Return(model.User{ID: 7, Username: "alice", IsActive: true}, nil)

		engine := newProtectedEngine(tokenManager, userStore)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"user_id":7`)
	})

	t.Run("missing header", func(t *testing.T) {
		engine := newProtectedEngine(&MockTokenManager{}, &MockUserStore{})

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		require.Contains(t, w.Body.String(), "Could not validate credentials")
	})

	t.Run("malformed header", func(t *testing.T) {
		engine := newProtectedEngine(&MockTokenManager{}, &MockUserStore{})

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Basic abc123")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		tokenManager := &MockTokenManager{}
		tokenManager.On("ParseAccessToken", "bad-token").
			Return(int64(0), model.ErrInvalidToken)

		userStore := &MockUserStore{}

		engine := newProtectedEngine(tokenManager, userStore)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		userStore.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("deactivated user", func(t *testing.T) {
		tokenManager := &MockTokenManager{}
		tokenManager.On("ParseAccessToken", "good-token").Return(int64(7), nil)

		userStore := &MockUserStore{}
		userStore.On("GetByID", mock.Anything, int64(7)).
			Return(model.User{ID: 7, Username: "alice", IsActive: false}, nil)

		engine := newProtectedEngine(tokenManager, userStore)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		tokenManager := &MockTokenManager{}
		tokenManager.On("ParseAccessToken", "good-token").Return(int64(7), nil)

		userStore := &MockUserStore{}
		userStore.On("GetByID", mock.Anything, int64(7)).
			Return(model.User{}, model.ErrNotFound)

		engine := newProtectedEngine(tokenManager, userStore)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
