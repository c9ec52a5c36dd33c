package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/afrishop/storegen/internal/auth"
	"github.com/afrishop/storegen/internal/config"
	"github.com/afrishop/storegen/internal/i18n"
	"github.com/afrishop/storegen/internal/identity"
	"github.com/afrishop/storegen/internal/middleware"
	"github.com/afrishop/storegen/internal/notification"
	"github.com/afrishop/storegen/internal/onboarding"
	"github.com/afrishop/storegen/internal/shop"
	"github.com/afrishop/storegen/internal/templates"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDevelopment() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	catalog, err := templates.LoadFile(d.Cfg.TemplatesFile)
	if err != nil {
		return err
	}
	messages := i18n.NewCatalog(d.Cfg.DefaultLocale)

	var (
		identityRepo identity.Repository
		shopRepo     shop.Repository
		store        onboarding.Store
		lock         onboarding.Lock
	)
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
		shopRepo = shop.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
		shopRepo = shop.NewMemoryRepository()
	}

	notifiers := notification.Fanout{notification.NewLoggerNotifier(d.Logger)}
	if d.Cache != nil {
		store = onboarding.NewRedisStore(d.Cache, d.Cfg.OnboardingSessionTTL)
		lock = onboarding.NewRedisLock(d.Cache, d.Cfg.SubmitLockTTL)
		notifiers = append(notifiers, notification.NewStreamNotifier(d.Cache, notification.DefaultStream, 10_000))
	} else {
		store = onboarding.NewMemoryStore(d.Cfg.OnboardingSessionTTL)
		lock = onboarding.NewLocalLock()
	}

	identitySvc := identity.NewService(identityRepo, d.Cfg.RequireEmailConfirmation)
	authSvc := auth.NewService(d.Cfg, identityRepo)
	shopSvc := shop.NewService(shopRepo, catalog, d.Logger)

	signup := auth.NewSignupGateway(identitySvc, authSvc, notifiers, messages, d.Cfg.PublicURL, d.Logger)
	submitter := onboarding.NewSubmitter(signup, lock, messages, d.Logger)
	flow := onboarding.NewFlow(nil, shopSvc, templates.NewChooser(catalog), d.Logger)
	wizard := onboarding.NewService(store, submitter, flow, d.Logger)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	jwtmw := middleware.JWTAuth(d.Cfg.JWTSecret, identityRepo)

	// Public routes
	RegisterOnboardingRoutes(api, onboarding.NewHandler(wizard, messages))
	RegisterTemplateRoutes(api, templates.NewHandler(catalog))
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimitPerMin)
	RegisterAuthRoutes(api, auth.NewHandler(identitySvc, authSvc, shopSvc), rateLimiter, jwtmw)

	// Protected routes
	protected := api.Group("", jwtmw)
	RegisterAccountRoutes(protected, identity.NewHandler(identitySvc), shop.NewHandler(shopSvc))

	return nil
}
