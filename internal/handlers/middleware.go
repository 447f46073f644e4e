package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pivovar/internal/i18n"
)

const (
	ctxUserID = "userId"
	ctxLocale = "locale"

	langCookie    = "lang"
	langCookieAge = int(365 * 24 * time.Hour / time.Second)
)

func (h *Handler) userIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userId, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(ctxUserID, userId)
	c.Next()
}

// requireAuth enforces a bearer token only when operator auth is enabled.
func (h *Handler) requireAuth(c *gin.Context) {
	if !h.authEnabled {
		c.Next()
		return
	}
	h.userIdMiddleware(c)
}

// localeMiddleware picks the UI locale: ?lang= (remembered in a cookie), then
// the cookie, then Accept-Language, then the catalog default.
func (h *Handler) localeMiddleware(c *gin.Context) {
	var locale string
	if q := strings.TrimSpace(c.Query("lang")); q != "" {
		locale = h.catalog.Resolve([]string{q}, "")
		c.SetCookie(langCookie, locale, langCookieAge, "/", "", false, true)
	} else if v, err := c.Cookie(langCookie); err == nil && v != "" {
		locale = h.catalog.Resolve([]string{v}, "")
	} else {
		locale = h.catalog.Resolve(i18n.ParseAcceptLanguage(c.GetHeader("Accept-Language")), "")
	}
	c.Set(ctxLocale, locale)
	c.Next()
}

func (h *Handler) locale(c *gin.Context) string {
	if v := c.GetString(ctxLocale); v != "" {
		return v
	}
	return h.catalog.Fallback()
}
