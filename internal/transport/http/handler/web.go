package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"burgerreview/internal/app"
	"burgerreview/internal/transport/http/middleware"
)

// WebHandler serves the server-rendered pages. Form posts always end in a
// redirect or a re-rendered form, never in a JSON body.
type WebHandler struct {
	authService    *app.AuthService
	catalogService *app.CatalogService
	reviewService  *app.ReviewService
	cookie         CookieConfig
	log            *zap.SugaredLogger
}

type RegisterForm struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type ReviewForm struct {
	BurgerID uint   `form:"burger_id"`
	Rating   int    `form:"rating" binding:"required"`
	Comment  string `form:"comment"`
	PhotoURL string `form:"photo_url"`
}

func NewWebHandler(
	authService *app.AuthService,
	catalogService *app.CatalogService,
	reviewService *app.ReviewService,
	cookie CookieConfig,
	log *zap.SugaredLogger,
) *WebHandler {
	return &WebHandler{
		authService:    authService,
		catalogService: catalogService,
		reviewService:  reviewService,
		cookie:         cookie,
		log:            log,
	}
}

func (h *WebHandler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "home.html", pageData{})
}

func (h *WebHandler) RegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", pageData{Title: "Register"})
}

func (h *WebHandler) Register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "register.html", pageData{
			Title: "Register",
			Error: "Could not read the registration form",
		})
		return
	}

	data := pageData{Title: "Register", Username: form.Username, Email: form.Email}
	_, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUsernameExists):
			data.Error = "Username already taken"
			h.render(c, http.StatusConflict, "register.html", data)
		case errors.Is(err, app.ErrEmailExists):
			data.Error = "Email already registered"
			h.render(c, http.StatusConflict, "register.html", data)
		case errors.Is(err, app.ErrInvalidInput):
			data.Error = "Please enter a username, a valid email and a password of at least 8 characters"
			h.render(c, http.StatusBadRequest, "register.html", data)
		default:
			h.log.Errorw("register failed", "error", err)
			data.Error = "Registration failed, please try again"
			h.render(c, http.StatusInternalServerError, "register.html", data)
		}
		return
	}

	h.addFlash(c, "Account created successfully!")
	c.Redirect(http.StatusFound, "/login")
}

func (h *WebHandler) LoginPage(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, "login.html", pageData{Title: "Log in"})
}

func (h *WebHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "login.html", pageData{
			Title: "Log in",
			Error: "Could not read the login form",
		})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		data := pageData{Title: "Log in", Email: form.Email, Error: "Invalid email or password"}
		switch {
		case errors.Is(err, app.ErrInvalidCredential), errors.Is(err, app.ErrInvalidInput):
			h.render(c, http.StatusUnauthorized, "login.html", data)
		default:
			h.log.Errorw("login failed", "error", err)
			data.Error = "Login failed, please try again"
			h.render(c, http.StatusInternalServerError, "login.html", data)
		}
		return
	}

	// logging in again replaces the session the browser already holds
	if previous := middleware.SessionID(c); previous != "" {
		if err := h.authService.Logout(c.Request.Context(), previous); err != nil {
			h.log.Warnw("revoke previous session failed", "error", err)
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, result.SessionID, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *WebHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		h.log.Warnw("logout failed", "error", err)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *WebHandler) Dashboard(c *gin.Context) {
	h.render(c, http.StatusOK, "dashboard.html", pageData{Title: "Dashboard"})
}

func (h *WebHandler) Chains(c *gin.Context) {
	chains, err := h.catalogService.ListChains(c.Request.Context())
	if err != nil {
		h.log.Errorw("list chains failed", "error", err)
		h.renderError(c, http.StatusInternalServerError, "Could not load chains")
		return
	}
	h.render(c, http.StatusOK, "chains.html", pageData{Title: "Chains", Chains: chains})
}

func (h *WebHandler) Burgers(c *gin.Context) {
	burgers, err := h.catalogService.ListBurgers(c.Request.Context())
	if err != nil {
		h.log.Errorw("list burgers failed", "error", err)
		h.renderError(c, http.StatusInternalServerError, "Could not load burgers")
		return
	}
	h.render(c, http.StatusOK, "burgers.html", pageData{Title: "Burgers", Burgers: burgers})
}

func (h *WebHandler) BurgerReviews(c *gin.Context) {
	burgerID, ok := parseID(c.Param("id"))
	if !ok {
		h.renderError(c, http.StatusNotFound, "Burger not found")
		return
	}

	ctx := c.Request.Context()
	burger, err := h.catalogService.GetBurger(ctx, burgerID)
	if err != nil {
		if errors.Is(err, app.ErrBurgerNotFound) {
			h.renderError(c, http.StatusNotFound, "Burger not found")
			return
		}
		h.log.Errorw("get burger failed", "burger_id", burgerID, "error", err)
		h.renderError(c, http.StatusInternalServerError, "Could not load burger")
		return
	}

	reviews, err := h.reviewService.ListReviewsForBurger(ctx, burgerID)
	if err != nil {
		h.log.Errorw("list reviews failed", "burger_id", burgerID, "error", err)
		h.renderError(c, http.StatusInternalServerError, "Could not load reviews")
		return
	}

	h.render(c, http.StatusOK, "burger_reviews.html", pageData{
		Title:   burger.Name,
		Burger:  burger,
		Reviews: reviews,
	})
}

// CreateReviewForBurger handles the form on a burger's review page.
func (h *WebHandler) CreateReviewForBurger(c *gin.Context) {
	burgerID, ok := parseID(c.Param("id"))
	if !ok {
		h.renderError(c, http.StatusNotFound, "Burger not found")
		return
	}
	h.createReview(c, burgerID)
}

// CreateReview handles posts that name the burger in the form body.
func (h *WebHandler) CreateReview(c *gin.Context) {
	burgerID, ok := parseID(c.PostForm("burger_id"))
	if !ok {
		h.addFlash(c, "Please choose a burger to review")
		c.Redirect(http.StatusFound, "/burgers")
		return
	}
	h.createReview(c, burgerID)
}

func (h *WebHandler) createReview(c *gin.Context, burgerID uint) {
	back := fmt.Sprintf("/burgers/%d/reviews", burgerID)
	user, _ := middleware.CurrentUser(c)

	var form ReviewForm
	if err := c.ShouldBind(&form); err != nil {
		h.addFlash(c, "Rating must be a whole number between 1 and 5")
		c.Redirect(http.StatusFound, back)
		return
	}

	_, err := h.reviewService.CreateReview(c.Request.Context(), app.CreateReviewInput{
		UserID:   user.ID,
		BurgerID: burgerID,
		Rating:   form.Rating,
		Comment:  &form.Comment,
		PhotoURL: &form.PhotoURL,
	})
	if err != nil {
		if errors.Is(err, app.ErrBurgerNotFound) {
			h.addFlash(c, "Burger not found")
			c.Redirect(http.StatusFound, "/burgers")
			return
		}
		h.addFlash(c, reviewErrorMessage(err))
		c.Redirect(http.StatusFound, back)
		return
	}

	h.addFlash(c, "Review added!")
	c.Redirect(http.StatusFound, back)
}

func reviewErrorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrInvalidRating):
		return "Rating must be between 1 and 5"
	case errors.Is(err, app.ErrInvalidPhotoURL):
		return "Photo URL must be a valid URL"
	case errors.Is(err, app.ErrUserNotFound):
		return "Your account could not be found"
	case errors.Is(err, app.ErrInvalidInput):
		return "Invalid review"
	default:
		return app.ErrPersistence.Error()
	}
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
