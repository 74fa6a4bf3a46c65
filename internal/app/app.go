package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sabdakrida_backend/internal/config"
	"sabdakrida_backend/internal/controller"
	"sabdakrida_backend/internal/repository"
	"sabdakrida_backend/internal/service"
	"sabdakrida_backend/pkg/database"
	"sabdakrida_backend/pkg/logger"
	"sabdakrida_backend/pkg/monitoring"
	"sabdakrida_backend/pkg/security"
	"sabdakrida_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	profile      *repository.ProfileRepository
	phonemeError *repository.PhonemeErrorRepository
	tutor        *repository.TutorRepository
	score        *repository.ScoreRepository
}

type services struct {
	auth          *service.AuthService
	storage       service.StorageService
	ai            *service.AIService
	embedding     *service.EmbeddingService
	asr           *service.ASRService
	tts           *service.TTSService
	vector        *service.VectorService
	assessment    *service.AssessmentService
	profile       *service.ProfileService
	drill         *service.DrillService
	grammar       *service.GrammarService
	conceptual    *service.ConceptualAssessor
	pronunciation *service.PronunciationService
	tutor         *service.TutorService
	game          *service.GameService
	search        *service.SearchService
}

type controllers struct {
	auth          *controller.AuthController
	pronunciation *controller.PronunciationController
	drill         *controller.DrillController
	profile       *controller.ProfileController
	tutor         *controller.TutorController
	game          *controller.GameController
	tts           *controller.TTSController
	search        *controller.SearchController
	health        *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig runs the registered hot-reload callbacks.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		profile:      repository.NewProfileRepository(db),
		phonemeError: repository.NewPhonemeErrorRepository(db),
		tutor:        repository.NewTutorRepository(db),
		score:        repository.NewScoreRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	storage, err := service.NewStorageService(cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	s.storage = storage

	s.auth = service.NewAuthService(repos.user, cfg.JWT)
	s.ai = service.NewAIService(cfg.AI)
	s.embedding = service.NewEmbeddingService(cfg.Embedding)
	s.asr = service.NewASRService(cfg.Speech)
	s.tts = service.NewTTSService(cfg.Speech, rdb)
	s.vector = service.NewVectorService(cfg.Vector)

	s.assessment = service.NewAssessmentService()
	s.profile = service.NewProfileService(repos.profile, cfg.Embedding.Dims)
	s.drill = service.NewDrillService(repos.phonemeError)
	s.grammar = service.NewGrammarService(cfg.Data.DhatuPath)
	if !s.grammar.Available() {
		logger.Log.Warn("dhātu reference data not loaded, grammar production checks disabled",
			zap.String("path", cfg.Data.DhatuPath))
	}
	s.conceptual = service.NewConceptualAssessor(s.ai)
	s.pronunciation = service.NewPronunciationService(s.asr, s.assessment, s.drill, repos.score, s.storage)
	s.tutor = service.NewTutorService(repos.tutor, s.conceptual, s.grammar, s.pronunciation)
	s.game = service.NewGameService(s.grammar, s.profile, s.vector)
	s.search = service.NewSearchService(s.embedding, s.vector)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:          controller.NewAuthController(s.auth),
		pronunciation: controller.NewPronunciationController(s.pronunciation),
		drill:         controller.NewDrillController(s.drill),
		profile:       controller.NewProfileController(s.profile),
		tutor:         controller.NewTutorController(s.tutor),
		game:          controller.NewGameController(s.game),
		tts:           controller.NewTTSController(s.tts),
		search:        controller.NewSearchController(s.search),
		health:        controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			// TTS caching degrades to in-process memory without Redis
			logger.Log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
			rdb = nil
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("sabdakrida-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
