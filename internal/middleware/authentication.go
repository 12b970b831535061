package middleware

import (
	"crypto/rsa"
	"net/http"

	"github.com/gatherhub/event-manager/internal/util"
	"github.com/gatherhub/event-manager/pkg/model"
	"github.com/gatherhub/event-manager/pkg/token"

	"github.com/gin-gonic/gin"
)

func NewAuthentication(publicKey *rsa.PublicKey) AuthenticationMiddleware {
	return AuthenticationMiddleware{
		publicKey: publicKey,
	}
}

type AuthenticationMiddleware struct {
	publicKey *rsa.PublicKey
}

// Authenticate puts the signed in user on the request context if the request
// carries a valid access token. Requests without one pass through, pages
// decide themselves whether a user is required.
func (m AuthenticationMiddleware) Authenticate(c *gin.Context) {
	user, err := token.ParseRequest(c.Request, m.publicKey)
	if err == nil {
		ctx := model.NewContextWithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)
	}

	c.Next()
}

// RequireAuthentication redirects anonymous requests to the login page with a
// warning flash. Any submitted form contents are lost on the redirect.
func (m AuthenticationMiddleware) RequireAuthentication(c *gin.Context) {
	if _, ok := model.GetUserFromContext(c.Request.Context()); !ok {
		util.SetFlash(c, "warning", "Please log in to continue")
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}

	c.Next()
}
