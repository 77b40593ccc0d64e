package middleware

import "github.com/gin-gonic/gin"

// BasicAuth is the single shared gate in front of the board API. One
// account, set through the environment; when no password is configured
// the gate is left open (local development).
func BasicAuth(username, password string) gin.HandlerFunc {
	if password == "" {
		return func(c *gin.Context) { c.Next() }
	}
	return gin.BasicAuth(gin.Accounts{username: password})
}
