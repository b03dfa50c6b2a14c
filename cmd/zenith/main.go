package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	zenith "github.com/zenith-app/zenith-api"
	"github.com/zenith-app/zenith-api/assist"
	"github.com/zenith-app/zenith-api/config"
	"github.com/zenith-app/zenith-api/middleware/authware"
	"github.com/zenith-app/zenith-api/provider/google"
	"github.com/zenith-app/zenith-api/tracker"
)

// App wires the pieces together: config, persistence, auth, and the HTTP
// surface.
type App struct {
	config *gconfig.Container[*config.BaseConfig]
	bunDB  *bun.DB
	auth   zenith.Authenticator
	repo   zenith.RepositoryManager
	logger *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Debug),
		glog.WithName("zenith"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	srv := BuildServer(app)

	go func() {
		addr := fmt.Sprintf(":%d", app.Config().GetServer().GetPort())
		if err := srv.Listen(addr); err != nil {
			app.GetLogger("server").Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	WaitExitSignal()

	if err := srv.Shutdown(); err != nil {
		app.GetLogger("server").Error("shutdown failed", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.Config().GetPersistence().GetDSN())
	if err != nil {
		return err
	}

	persistence.RegisterModel((*zenith.User)(nil))
	persistence.RegisterModel((*tracker.ClassItem)(nil))
	persistence.RegisterModel((*tracker.Task)(nil))
	persistence.RegisterModel((*tracker.Transaction)(nil))

	pcfg := app.Config().GetPersistence()
	client, err := persistence.New(pcfg, db, sqlitedialect.New())
	if err != nil {
		return err
	}
	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(zenith.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = zenith.NewRepositoryManager(client.DB())
	app.auth = zenith.NewAuthenticator(app.repo.Users(), app.Config().GetAuth()).
		WithLogger(loggerAdapter{app.GetLogger("auth")})

	return nil
}

// BuildServer assembles the fiber app with every route mounted.
func BuildServer(app *App) *fiber.App {
	httpLogger := loggerAdapter{app.GetLogger("http")}

	srv := fiber.New(fiber.Config{
		AppName: app.Config().GetName(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return zenith.WriteError(c, httpLogger, err)
		},
	})

	srv.Use(recover.New())

	if origins := app.Config().GetServer().GetAllowedOrigins(); len(origins) > 0 {
		srv.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(origins, ","),
			AllowCredentials: true,
		}))
	}

	srv.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":   app.Config().GetName(),
			"status": "ok",
		})
	})
	srv.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	cookie := zenith.NewSessionCookie(app.Config().GetAuth())

	gate := authware.New(authware.Config{
		Cookie: cookie,
		Auth:   app.auth,
		Logger: loggerAdapter{app.GetLogger("gate")},
	})

	verifier := google.New(google.Config{
		ClientID:     app.Config().GetAuth().GetGoogleClientID(),
		TokeninfoURL: app.Config().GetAuth().GetGoogleTokeninfoURL(),
	})

	authController := zenith.NewAuthController(
		zenith.WithAuthenticator(app.auth),
		zenith.WithSessionCookie(cookie),
		zenith.WithFederatedVerifier(verifier),
		zenith.WithControllerLogger(loggerAdapter{app.GetLogger("auth")}),
	)

	api := srv.Group("/api")
	zenith.RegisterAuthRoutes(api.Group("/auth"), authController, gate)

	store := tracker.NewStore(app.bunDB)
	trackerController := tracker.NewController(
		tracker.WithStore(store),
		tracker.WithLogger(loggerAdapter{app.GetLogger("tracker")}),
	)
	tracker.RegisterRoutes(api, trackerController, gate)

	generator := assist.NewGemini(assist.GeminiConfig{
		APIKey: app.Config().GetGemini().GetAPIKey(),
		Model:  app.Config().GetGemini().GetModel(),
	})
	assistController := assist.NewController(
		assist.WithStore(store),
		assist.WithGenerator(generator),
		assist.WithLogger(loggerAdapter{app.GetLogger("assist")}),
	)
	assist.RegisterRoutes(api, assistController, gate)

	return srv
}

// loggerAdapter maps the printf-style core logger onto glog's structured
// calls.
type loggerAdapter struct {
	logger glog.Logger
}

func (l loggerAdapter) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l loggerAdapter) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l loggerAdapter) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l loggerAdapter) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func WaitExitSignal() os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(
		sigCh,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	return <-sigCh
}
