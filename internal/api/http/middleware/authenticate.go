package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medvault/dicom-server/internal/logger"
	"github.com/medvault/dicom-server/internal/model"
)

const userIDKey = "user_id"

// Authenticate validates bearer tokens and injects the caller's user ID
// into the request context. The user is re-read from the store on every
// request so deactivated accounts lose access before their token expires.
type Authenticate struct {
	tokenManager model.TokenManager
	userStore    model.UserStore
	logger       *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenManager model.TokenManager, userStore model.UserStore, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenManager: tokenManager, userStore: userStore, logger: logger}
}

// Handle returns the gin middleware function.
func (m *Authenticate) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			m.abort(c)
			return
		}

		userID, err := m.tokenManager.ParseAccessToken(tokenString)
		if err != nil {
			m.logger.Debug("Authenticate middleware: token rejected",
				"error", err.Error())
			m.abort(c)
			return
		}

		user, err := m.userStore.GetByID(c.Request.Context(), userID)
		if err != nil || !user.IsActive {
			m.abort(c)
			return
		}

		SetCurrentUserID(c, user.ID)
		c.Next()
	}
}

func (m *Authenticate) abort(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
}

// SetCurrentUserID stores the caller's user ID in the request context.
func SetCurrentUserID(c *gin.Context, id int64) {
	c.Set(userIDKey, id)
}

// CurrentUserID returns the authenticated caller's user ID from the
// request context.
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
