package app

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// metricsAuthMiddleware enforces Basic Auth on /metrics.
// An empty password leaves the endpoint open.
func metricsAuthMiddleware(username, password string) gin.HandlerFunc {
	if password == "" {
		return func(c *gin.Context) { c.Next() }
	}
	wantUser := []byte(username)
	wantPass := []byte(password)

	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		// Compare both fields even when the first one fails.
		userMatch := subtle.ConstantTimeCompare([]byte(user), wantUser) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(pass), wantPass) == 1
		if !ok || !userMatch || !passMatch {
			c.Header("WWW-Authenticate", `Basic realm="metrics"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
