package server

import (
	"github.com/gin-gonic/gin"
	authdomain "github.com/hopelink/hopelink/internal/auth/domain"
	obscontext "github.com/hopelink/hopelink/internal/observability/context"
)

const contextUserKey = "auth_user"

// AuthRequired resolves the session cookie to a user and rejects the
// request when it cannot.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		setCurrentUser(c, user)
		c.Next()
	}
}

// OptionalAuth resolves the session cookie when present. Anonymous
// requests pass through untouched.
func (s *Server) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if ok {
			if user, err := s.authsvc.Authenticate(c.Request.Context(), token); err == nil {
				setCurrentUser(c, user)
			}
		}
		c.Next()
	}
}

func (s *Server) RequireRole(roles ...authdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

func setCurrentUser(c *gin.Context, user authdomain.User) {
	c.Set(contextUserKey, user)
	ctx := obscontext.WithUserID(c.Request.Context(), user.ID.String())
	c.Request = c.Request.WithContext(ctx)
}

func currentUser(c *gin.Context) (authdomain.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return authdomain.User{}, false
	}
	user, ok := value.(authdomain.User)
	return user, ok
}
