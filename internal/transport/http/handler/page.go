package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"burgerreview/internal/model"
	"burgerreview/internal/transport/http/middleware"
)

const flashCookieName = "burger_flash"

// pageData is the single view model shared by every template, so a page
// never renders a field that is missing from its data.
type pageData struct {
	Title   string
	User    *model.User
	Flashes []string
	Error   string

	Username string
	Email    string

	Chains  []model.Chain
	Burgers []model.Burger
	Burger  *model.Burger
	Reviews []model.Review
}

type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge int
}

func (h *WebHandler) render(c *gin.Context, status int, name string, data pageData) {
	if user, ok := middleware.CurrentUser(c); ok {
		data.User = user
	}
	data.Flashes = h.popFlashes(c)
	c.HTML(status, name, data)
}

func (h *WebHandler) renderError(c *gin.Context, status int, title string) {
	h.render(c, status, "error.html", pageData{Title: title})
}

// addFlash stores a one-shot message shown on the next rendered page.
func (h *WebHandler) addFlash(c *gin.Context, message string) {
	messages := append(readFlashes(c), message)
	payload, err := json.Marshal(messages)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, base64.RawURLEncoding.EncodeToString(payload), 60, "/", "", h.cookie.Secure, true)
}

func (h *WebHandler) popFlashes(c *gin.Context) []string {
	messages := readFlashes(c)
	if len(messages) > 0 {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(flashCookieName, "", -1, "/", "", h.cookie.Secure, true)
	}
	return messages
}

func readFlashes(c *gin.Context) []string {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var messages []string
	if err := json.Unmarshal(payload, &messages); err != nil {
		return nil
	}
	return messages
}
