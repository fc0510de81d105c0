// handlers/app.go
package handlers

import (
	"errors"
	"strings"

	"league-portal/config"
	"league-portal/middleware"
	"league-portal/services"
	"league-portal/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type Services struct {
	Auth   *services.AuthService
	League *services.LeagueService
	Search *services.SearchService
	Admin  *services.AdminService
}

// NewApp builds the fiber app with every route mounted. uploadsDir, when set,
// is served under /uploads for crests stored on local disk.
func NewApp(cfg *config.Config, svc Services, uploadsDir string, log logrus.FieldLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        views.NewEngine(),
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: errorHandler(log),
	})

	app.Use(middleware.RequestLogger(log))

	origins := strings.Join(cfg.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: !strings.Contains(origins, "*"),
		MaxAge:           86400,
	}))

	app.Use(middleware.SessionMiddleware(cfg.SessionTTL, cfg.AppEnv == "production"))

	SetupPageRoutes(app, PageDeps{
		League:     svc.League,
		Auth:       svc.Auth,
		RequireOTP: cfg.LoginRequireOTP,
	}, log)
	SetupAuthRoutes(app, svc.Auth, log)
	SetupLeagueRoutes(app, svc.League, svc.Search, svc.Auth, log)
	SetupAdminRoutes(app, AdminDeps{
		Admin:  svc.Admin,
		League: svc.League,
		Search: svc.Search,
		Token:  cfg.AdminToken,
		Staff:  svc.Auth,
	}, log)

	if uploadsDir != "" {
		app.Static("/uploads", uploadsDir)
	}
	return app
}

func errorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code, msg = fe.Code, fe.Message
		} else {
			log.WithError(err).WithField("path", utils.CopyString(c.Path())).Error("Unhandled error")
		}
		return c.Status(code).JSON(services.Result{Success: false, Message: msg})
	}
}
