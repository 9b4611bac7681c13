package http

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"burgerreview/internal/bootstrap"
	"burgerreview/internal/transport/http/handler"
	"burgerreview/internal/transport/http/middleware"
	"burgerreview/internal/transport/http/view"
)

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(app.Logger.Named("http")), gin.Recovery())
	// preflight requests match no route, so CORS has to run at engine level
	router.Use(middleware.CORS(app.Config.App.CORSOrigins))

	templates, err := view.Load()
	if err != nil {
		return nil, fmt.Errorf("load views failed: %w", err)
	}
	router.SetHTMLTemplate(templates)

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	cookie := handler.CookieConfig{
		Name:   app.Config.Auth.CookieName,
		Secure: app.Config.Auth.CookieSecure,
		MaxAge: app.Config.Auth.SessionTTLMinute * 60,
	}
	webHandler := handler.NewWebHandler(app.AuthService, app.CatalogService, app.ReviewService, cookie, app.Logger.Named("web"))

	web := router.Group("/")
	web.Use(middleware.LoadSession(app.AuthService, cookie.Name, app.Logger.Named("session")))
	web.GET("/", webHandler.Home)
	web.GET("/register", webHandler.RegisterPage)
	web.POST("/register", webHandler.Register)
	web.GET("/login", webHandler.LoginPage)
	web.POST("/login", webHandler.Login)
	web.GET("/chains", webHandler.Chains)
	web.GET("/burgers", webHandler.Burgers)
	web.GET("/burgers/:id/reviews", webHandler.BurgerReviews)

	private := web.Group("/")
	private.Use(middleware.RequireLogin())
	private.GET("/logout", webHandler.Logout)
	private.GET("/dashboard", webHandler.Dashboard)
	private.POST("/burgers/:id/reviews/create", webHandler.CreateReviewForBurger)
	private.POST("/reviews", webHandler.CreateReview)

	authHandler := handler.NewAuthHandler(app.AuthService)
	catalogHandler := handler.NewCatalogHandler(app.CatalogService)
	reviewHandler := handler.NewReviewHandler(app.ReviewService)
	requireToken := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	api := router.Group("/api")
	api.POST("/users", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", requireToken, authHandler.Me)
	api.POST("/chains", catalogHandler.CreateChain)
	api.GET("/chains", catalogHandler.ListChains)
	api.POST("/burgers", catalogHandler.CreateBurger)
	api.GET("/burgers", catalogHandler.ListBurgers)
	api.POST("/reviews", requireToken, reviewHandler.Create)
	api.GET("/reviews/:burger_id", reviewHandler.ListByBurger)

	return router, nil
}
