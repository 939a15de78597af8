package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashMessageCookie = "flash_message"
	flashErrorCookie   = "flash_error"
)

func setFlash(c *gin.Context, name, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, 60, "/", "", false, true)
}

func clearFlash(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", false, true)
}

// popFlash returns the pending one-shot messages and expires their cookies.
func popFlash(c *gin.Context) (message, errMsg string) {
	if v, err := c.Cookie(flashMessageCookie); err == nil && v != "" {
		message = v
		clearFlash(c, flashMessageCookie)
	}
	if v, err := c.Cookie(flashErrorCookie); err == nil && v != "" {
		errMsg = v
		clearFlash(c, flashErrorCookie)
	}
	return message, errMsg
}
