package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/dmitrijs2005/cargodesk/internal/logging"
	"github.com/dmitrijs2005/cargodesk/internal/server/auth"
	"github.com/dmitrijs2005/cargodesk/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CorrelationHeader = common.CorrelationIDHeaderName
	claimsKey         = "claims"
	managerRole       = models.RoleManager
)

// correlationID reuses the caller's correlation id or generates one, echoes
// it back and stores it on the request context for logging.
func (s *HTTPServer) correlationID(c *gin.Context) {
	id := c.GetHeader(CorrelationHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(CorrelationHeader, id)
	c.Request = c.Request.WithContext(logging.WithCorrelationID(c.Request.Context(), id))
	c.Next()
}

func (s *HTTPServer) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	s.logger.Info(c.Request.Context(), "request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}

// authenticate requires a valid bearer token and stores its claims.
func (s *HTTPServer) authenticate(c *gin.Context) {
	header := c.GetHeader(common.AuthorizationHeaderName)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		abort(c, http.StatusUnauthorized, "missing token")
		return
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		abort(c, http.StatusUnauthorized, "invalid token")
		return
	}

	c.Set(claimsKey, claims)
	c.Next()
}

func requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil || claims.Role != role {
			abort(c, http.StatusForbidden, common.ErrorForbidden.Error())
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "error": msg})
}
