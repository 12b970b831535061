package util

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const accessTokenCookieName = "accessToken"
const flashCookieName = "flash"

func SetAccessTokenCookie(c *gin.Context, signedToken string, expirationSeconds int, hostname string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookieName, signedToken, expirationSeconds, "/", hostname, true, true)
}

func ClearAccessTokenCookie(c *gin.Context, hostname string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(accessTokenCookieName, "", -1, "/", hostname, true, true)
}

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func SetFlash(c *gin.Context, level, message string) {
	bytes, err := json.Marshal(Flash{Level: level, Message: message})
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(flashCookieName, base64.URLEncoding.EncodeToString(bytes), 60, "/", "", false, true)
}

// PopFlash returns the pending flash message, if any, and clears its cookie so
// it is only shown once.
func PopFlash(c *gin.Context) (Flash, bool) {
	value, err := c.Cookie(flashCookieName)
	if err != nil {
		return Flash{}, false
	}

	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)

	bytes, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return Flash{}, false
	}

	var flash Flash
	if err := json.Unmarshal(bytes, &flash); err != nil {
		return Flash{}, false
	}
	return flash, true
}
