package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/assistant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/events"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/kb"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/handlers"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/repositories"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/services"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/metrics"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/response"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/church-ai-agent-be/cmd/church-api/docs"
)

const version = "1.0.0"

// @title Church AI Assistant API
// @version 1.0
// @description Dashboard API for configuring and testing a church's AI chat assistant
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env, cfg.LogLevel)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("🚀 Starting church-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init database
	db, err := database.NewDB(cfg.DatabaseURL, !cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect to database")
	}
	defer db.Close()

	// Init LLM provider
	provider, err := llm.NewProvider(ctx, llm.ProviderConfigFrom(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize LLM provider")
	}
	log.Info().Str("provider", provider.GetProviderName()).Msg("🤖 LLM provider ready")

	// Messaging
	bus := newBus(ctx, cfg)
	defer bus.Close()
	publisher := newPublisher(cfg)
	defer publisher.Close()

	// Init repositories
	userRepo := auth.NewUserRepo(db.GORM)
	churchRepo := repositories.NewChurchRepo(db.GORM)
	agendaRepo := repositories.NewAgendaRepo(db.GORM)
	onboardingRepo := repositories.NewOnboardingRepo(db.GORM)

	// Init services
	authService := auth.NewService(userRepo, auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL))
	churchService := services.NewChurchService(churchRepo, bus)
	agendaService := services.NewAgendaService(agendaRepo, bus)
	onboardingService := services.NewOnboardingService(onboardingRepo, churchRepo, bus)
	auditService := audit.NewService(db.GORM)
	humanChat := services.NewHumanChat()

	schedules := services.NewCollection[models.ScheduleEntry](
		repositories.NewCollectionRepo[models.ScheduleEntry](db.GORM, "created_at"),
		bus, events.EntitySchedule, "Horário não encontrado")
	specialEvents := services.NewCollection[models.SpecialEvent](
		repositories.NewCollectionRepo[models.SpecialEvent](db.GORM, "date"),
		bus, events.EntityEvent, "Evento não encontrado")
	faqs := services.NewCollection[models.FaqEntry](
		repositories.NewCollectionRepo[models.FaqEntry](db.GORM, "created_at"),
		bus, events.EntityFAQ, "FAQ não encontrada")
	ministries := services.NewCollection[models.Ministry](
		repositories.NewCollectionRepo[models.Ministry](db.GORM, "name"),
		bus, events.EntityMinistry, "Ministério não encontrado")
	availability := services.NewCollection[models.PastoralAvailability](
		repositories.NewCollectionRepo[models.PastoralAvailability](db.GORM, "created_at"),
		bus, events.EntityAvailability, "Disponibilidade não encontrada")
	files := services.NewCollection[models.UploadedFile](
		repositories.NewCollectionRepo[models.UploadedFile](db.GORM, "uploaded_at DESC"),
		bus, events.EntityFile, "Arquivo não encontrado")

	// Init assistant
	manager := assistant.NewManager(assistant.ManagerConfig{
		Provider:   provider,
		Loader:     kb.NewRetriever(db.GORM),
		Sink:       services.NewAssistantActions(agendaService, auditService, publisher, humanChat),
		Serializer: assistant.Serializer{MaxChars: cfg.MaxContextChars},
		Timeout:    cfg.LLMTimeout,
		IdleTTL:    cfg.SessionIdleTTL,
	})
	unsubscribe := bus.Subscribe(func(ev events.DataChanged) {
		if n := manager.Invalidate(ev.ChurchID); n > 0 {
			log.Debug().
				Str("church_id", ev.ChurchID.String()).
				Str("entity", ev.Entity).
				Int("sessions", n).
				Msg("🔄 Assistant sessions marked stale")
		}
	})
	defer unsubscribe()

	reaper, err := assistant.NewReaper(manager, cfg.SessionReaperSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid session reaper schedule")
	}
	reaper.Start()
	defer reaper.Stop()

	// Init handlers
	authHandler := auth.NewHandler(authService)
	churchHandler := handlers.NewChurchHandler(churchService)
	agendaHandler := handlers.NewAgendaHandler(agendaService)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService)
	assistantHandler := handlers.NewAssistantHandler(manager, auditService)
	humanChatHandler := handlers.NewHumanChatHandler(humanChat)
	healthHandler := handlers.NewHealthHandler(version, provider.GetProviderName())

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Church AI Assistant API",
		ErrorHandler: response.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(cfg),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	app.Use(logger.New())
	app.Use(metrics.Middleware())

	// Ops
	app.Get("/metrics", metrics.Handler(metrics.NewRegistry()))
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	api.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return response.Fail(c, fiber.StatusTooManyRequests, "Muitas requisições. Tente novamente mais tarde.", nil)
		},
	}))
	api.Get("/health", healthHandler.GetHealth)

	protected := auth.AuthMiddleware(authService)
	authHandler.RegisterRoutes(api, protected)
	onboardingHandler.RegisterRoutes(api, protected)

	// Registered before the church-scoped group: the user has no church yet.
	api.Post("/church/create", protected, churchHandler.CreateChurch)

	church := api.Group("/church", protected, tenant.RequireChurch())
	churchHandler.RegisterRoutes(church)
	agendaHandler.RegisterRoutes(church)
	handlers.NewCollectionHandler[models.ScheduleEntry, models.ScheduleRequest](
		schedules, true, "Horário salvo", "Horário removido").RegisterRoutes(church, "/schedules")
	handlers.NewCollectionHandler[models.SpecialEvent, models.SpecialEventRequest](
		specialEvents, true, "Evento salvo", "Evento removido").RegisterRoutes(church, "/events")
	handlers.NewCollectionHandler[models.FaqEntry, models.FaqRequest](
		faqs, true, "FAQ salva", "FAQ removida").RegisterRoutes(church, "/faqs")
	handlers.NewCollectionHandler[models.Ministry, models.MinistryRequest](
		ministries, true, "Ministério salvo", "Ministério removido").RegisterRoutes(church, "/ministries")
	handlers.NewCollectionHandler[models.PastoralAvailability, models.AvailabilityRequest](
		availability, false, "Disponibilidade salva", "Disponibilidade removida").RegisterRoutes(church, "/availability")
	handlers.NewCollectionHandler[models.UploadedFile, models.UploadedFileRequest](
		files, false, "Arquivo registrado", "Arquivo removido").RegisterRoutes(church, "/files")

	assistantHandler.RegisterRoutes(api.Group("/assistant", protected, tenant.RequireChurch()))
	humanChatHandler.RegisterRoutes(api.Group("/human-chat", protected, tenant.RequireChurch()))

	go func() {
		<-ctx.Done()
		log.Info().Msg("🛑 Shutting down church-api...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("❌ Graceful shutdown failed")
		}
	}()

	log.Info().Msgf("✅ church-api running at :%s", cfg.Port)
	log.Info().Msgf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("❌ Server stopped")
	}
}

// newBus uses Redis when configured so that every instance hears about
// changes; otherwise notifications stay in process.
func newBus(ctx context.Context, cfg *config.Config) events.Bus {
	if cfg.RedisURL == "" {
		log.Info().Msg("📡 Data-changed bus: in-process")
		return events.NewLocalBus()
	}

	rdb, err := events.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect to Redis")
	}
	bus, err := events.NewRedisBus(ctx, rdb)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to subscribe to Redis")
	}
	return bus
}

func newPublisher(cfg *config.Config) events.ActionPublisher {
	if cfg.NATSURL == "" {
		log.Warn().Msg("⚠️ NATS_URL not set, assistant actions will not be forwarded")
		return events.NoopPublisher{}
	}

	publisher, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSToken)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect to NATS")
	}
	log.Info().Msg("📨 Assistant actions published to NATS")
	return publisher
}

func allowedOrigins(cfg *config.Config) string {
	origins := []string{"http://localhost:5173"}
	if cfg.FrontendURL != "" {
		origins = append(origins, strings.TrimRight(cfg.FrontendURL, "/"))
	}
	return strings.Join(origins, ",")
}
