package app

import (
	"mekong-backend/internal/auth"
	"mekong-backend/internal/config"
	"mekong-backend/internal/dashboard"
	"mekong-backend/internal/database"
	"mekong-backend/internal/feed"
	"mekong-backend/internal/health"
	"mekong-backend/internal/investments"
	"mekong-backend/internal/leaderboard"
	"mekong-backend/internal/middleware"
	"mekong-backend/internal/navigation"
	"mekong-backend/internal/notifications"
	"mekong-backend/internal/pkg/constants"
	"mekong-backend/internal/projects"
	"mekong-backend/internal/ratings"
	"mekong-backend/internal/salinity"
	"mekong-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// gormPinger adapts a gorm DB to the health check's Ping interface.
type gormPinger struct {
	db *gorm.DB
}

func (p *gormPinger) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all global middleware and route
// registration.
func CreateApp(cfg *config.Config) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis); the Redis client doubles as traffic-stat storage
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, err
	}
	app.Use(sessionHandler)

	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	// --- Public routes ---
	var dbPinger health.DBPinger
	if db != nil {
		dbPinger = &gormPinger{db: db}
	}
	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		DB:             dbPinger,
		HealthAdminKey: cfg.HealthAdminKey,
		FrontendURL:    cfg.FrontendURL,
	}
	app.Get("/", healthHandlers.Live)
	app.Get("/reset", healthHandlers.Reset)
	app.Get("/health/json", healthHandlers.JSON)

	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{
		DB:         db,
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// --- Protected modules ---
	if db != nil && rdb != nil {
		hub := notifications.NewHub()
		notifService := &notifications.Service{DB: db, Pusher: hub}
		notifHandlers := notifications.NewHandlers(notifService, hub)
		notifGroup := app.Group("/api/v1/notifications", middleware.RequireAuth())
		notifGroup.Get("/get-notifications", notifHandlers.List)
		notifGroup.Get("/unread-count", notifHandlers.UnreadCount)
		notifGroup.Patch("/mark-read/:id", notifHandlers.MarkRead)
		notifGroup.Patch("/mark-all-read", notifHandlers.MarkAllRead)
		notifGroup.Delete("/delete/:id", notifHandlers.Delete)
		app.Get("/api/v1/ws", middleware.RequireAuth(), notifHandlers.Stream)

		userService := &users.Service{DB: db}
		userHandlers := &users.Handlers{Service: userService, Config: sessionCfg}
		userGroup := app.Group("/api/v1/users", middleware.RequireAuth())
		userGroup.Get("/view-profile/:id", userHandlers.ViewProfile)
		userGroup.Put("/update-profile", middleware.RequirePage(navigation.PageProfile), userHandlers.UpdateProfile)
		userGroup.Get("/settings", middleware.RequirePage(navigation.PageSettings), userHandlers.GetSettings)
		userGroup.Put("/settings", middleware.RequirePage(navigation.PageSettings), userHandlers.UpdateSettings)
		userGroup.Patch("/update-role", userHandlers.UpdateRole)

		dashService := &dashboard.Service{DB: db}
		dashHandlers := dashboard.NewHandlers(dashService)
		app.Get("/api/v1/dashboard/stats", middleware.RequireAuth(), dashHandlers.Summary)

		feedService := &feed.Service{DB: db}
		feedHandlers := feed.NewHandlers(feedService)
		feedGroup := app.Group("/api/v1/feed", middleware.RequireAuth(), middleware.RequirePage(navigation.PageFeed))
		feedGroup.Post("/posts", feedHandlers.CreatePost)
		feedGroup.Get("/posts", feedHandlers.ListPosts)
		feedGroup.Post("/posts/:id/like", feedHandlers.LikePost)
		feedGroup.Delete("/posts/:id", feedHandlers.DeletePost)

		productGroup := app.Group("/api/v1/products", middleware.RequireAuth(), middleware.RequirePage(navigation.PageProducts))
		productGroup.Post("/", feedHandlers.CreateProduct)
		productGroup.Get("/", feedHandlers.ListProducts)
		productGroup.Get("/:id", feedHandlers.GetProduct)
		productGroup.Delete("/:id", feedHandlers.DeleteProduct)

		projectService := &projects.Service{DB: db}
		projectHandlers := &projects.Handlers{Service: projectService}
		projectGroup := app.Group("/api/v1/projects", middleware.RequireAuth())
		projectGroup.Post("/create-project", middleware.RequirePage(navigation.PageCreateProject), projectHandlers.CreateProject)
		projectGroup.Get("/get-all-projects", middleware.RequirePage(navigation.PageInvest), projectHandlers.ListProjects)
		projectGroup.Get("/get-my-projects", projectHandlers.ListOwnProjects)
		projectGroup.Get("/get-project/:project_id", middleware.RequirePage(navigation.PageInvest), projectHandlers.GetProject)
		projectGroup.Put("/update-project/:project_id", middleware.RequirePage(navigation.PageEditProject), projectHandlers.UpdateProject)
		projectGroup.Post("/update-status", projectHandlers.UpdateStatus)
		projectGroup.Delete("/delete-project/:project_id", projectHandlers.DeleteProject)

		invService := &investments.Service{DB: db, Notifier: notifService}
		invHandlers := &investments.Handlers{Service: invService}
		invGroup := app.Group("/api/v1/investments", middleware.RequireAuth(), middleware.RequirePage(navigation.PageInvest))
		invGroup.Post("/create-investment", invHandlers.CreateInvestment)
		invGroup.Post("/confirm-investment", invHandlers.ConfirmInvestment)
		invGroup.Post("/cancel-investment", invHandlers.CancelInvestment)
		invGroup.Get("/project-investments/:project_id", invHandlers.ListProjectInvestments)
		invGroup.Get("/my-investments", invHandlers.ListOwnInvestments)

		ratingService := &ratings.Service{DB: db, Notifier: notifService}
		ratingHandlers := &ratings.Handlers{Service: ratingService}
		ratingGroup := app.Group("/api/v1/ratings", middleware.RequireAuth(), middleware.RequirePage(navigation.PageInvest))
		ratingGroup.Post("/rate-project", ratingHandlers.RateProject)
		ratingGroup.Get("/my-rating/:project_id", ratingHandlers.GetMyRating)
		ratingGroup.Get("/project-ratings/:project_id", ratingHandlers.ListProjectRatings)

		lbService := &leaderboard.Service{DB: db}
		lbHandlers := &leaderboard.Handlers{Service: lbService}
		app.Get("/api/v1/leaderboard", middleware.RequireAuth(), middleware.RequirePage(navigation.PageInvest), lbHandlers.TopProjects)

		salinityService := &salinity.Service{DB: db, Alerter: notifService}
		salinityHandlers := salinity.NewHandlers(salinityService)
		salinityGroup := app.Group("/api/v1/salinity", middleware.RequireAuth(), middleware.RequirePage(navigation.PageForecast))
		salinityGroup.Get("/stations", salinityHandlers.ListStations)
		salinityGroup.Get("/readings/:station_id", salinityHandlers.StationReadings)
		salinityGroup.Post("/stations", middleware.RequireRole(constants.Admin), salinityHandlers.CreateStation)
		salinityGroup.Post("/record-reading", middleware.RequireRole(constants.Admin), salinityHandlers.RecordReading)
	}

	return app, nil
}
