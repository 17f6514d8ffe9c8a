package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"vozgestora/internal/cache"
	"vozgestora/internal/config"
	"vozgestora/internal/llm"
	"vozgestora/internal/repository"
	"vozgestora/internal/service"
	"vozgestora/internal/transport/rest"
	"vozgestora/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// App wires configuration, backends and services into one runnable unit
type App struct {
	Config *config.Config
	Logger *zap.Logger

	FeedbackRepo repository.FeedbackRepo
	AlertRepo    repository.AlertRepo
	ReportRepo   repository.ReportRepo
	SessionCache cache.SessionCache
	MetricCache  cache.MetricCache
	WizardCache  cache.WizardCache

	Directory  *service.DirectoryService
	Classifier *service.SentimentClassifier
	Metrics    *service.MetricService
	Alerts     *service.AlertService
	Feedback   *service.FeedbackService
	Polls      *service.PollService
	Insights   *service.InsightService
	Submission *service.SubmissionService
	Auth       *service.AuthService
	Dashboard  *service.DashboardService
	Scheduler  *service.Scheduler
	Notifier   service.Notifier
	Hub        *ws.Hub

	Container *rest.Container

	mongoClient *mongo.Client
	redisClient *redis.Client
}

// New connects the configured backends and builds every service
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	if err := a.openStore(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}
	if err := a.openCache(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}

	generator, err := llm.New(ctx, cfg.AI, logger)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Warn("AI provider not configured, sentiment uses the rating heuristic", zap.String("provider", cfg.AI.Provider))
		generator = nil
	case err != nil:
		a.Close(ctx)
		return nil, fmt.Errorf("init ai provider: %w", err)
	default:
		logger.Info("AI provider configured",
			zap.String("provider", cfg.AI.Provider),
			zap.String("sentiment_model", cfg.AI.Models.Sentiment),
			zap.String("advisor_model", cfg.AI.Models.Advisor),
			zap.String("report_model", cfg.AI.Models.Report),
		)
	}

	notifier := service.NewNotifier(cfg.SlackWebhookURL, logger)
	a.Notifier = notifier

	a.Directory = service.NewDirectoryService(service.Municipalities)
	a.Hub = ws.NewHub(logger)

	a.Metrics = service.NewMetricService(a.Directory, service.NewMetricGenerator(nil), a.MetricCache, cfg.MetricTTL(), logger)
	a.Alerts = service.NewAlertService(a.AlertRepo, a.Directory, notifier, logger)
	a.Feedback = service.NewFeedbackService(a.FeedbackRepo, a.Directory, notifier, logger)
	a.Classifier = service.NewSentimentClassifier(generator, cfg.AI.Models.Sentiment, logger)
	a.Polls = service.NewPollService(a.WizardCache, a.Directory, a.Classifier, a.Feedback.Record, cfg.PollCompletionDelay(), logger)
	a.Insights = service.NewInsightService(generator, cfg.AI.Models.Advisor, cfg.AI.Models.Report, a.FeedbackRepo, a.ReportRepo, a.Directory, logger)
	a.Submission = service.NewSubmissionService(a.Metrics, a.Alerts, logger)
	a.Auth = service.NewAuthService(cfg.JWTSecret, cfg.SessionTTL(), a.SessionCache, a.Directory, logger)
	a.Dashboard = service.NewDashboardService(a.Directory, a.Metrics, a.Alerts, a.Feedback)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	a.Metrics.SetBroadcaster(a.Hub)
	a.Alerts.SetBroadcaster(a.Hub)
	a.Feedback.SetBroadcaster(a.Hub)

	if err := a.Alerts.Seed(ctx); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("seed alerts: %w", err)
	}

	a.Scheduler = service.NewScheduler(logger)
	if err := a.Scheduler.ScheduleMetricRefresh(cfg.MetricRefreshSchedule, a.Metrics); err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.Container = &rest.Container{
		Directory:         a.Directory,
		AuthService:       a.Auth,
		DashboardService:  a.Dashboard,
		MetricService:     a.Metrics,
		AlertService:      a.Alerts,
		FeedbackService:   a.Feedback,
		InsightService:    a.Insights,
		SubmissionService: a.Submission,
		PollService:       a.Polls,
		WSHub:             a.Hub,
		CORS: rest.CORS{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: cfg.CORSAllowedMethods,
			AllowedHeaders: cfg.CORSAllowedHeaders,
		},
		Logger: logger,
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	switch a.Config.StoreBackend {
	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(a.Config.MongoURI))
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		a.mongoClient = client

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			return fmt.Errorf("ping mongodb: %w", err)
		}
		a.Logger.Info("connected to MongoDB", zap.String("db", a.Config.MongoDB))

		db := client.Database(a.Config.MongoDB)
		a.FeedbackRepo = repository.NewFeedbackRepo(db)
		a.AlertRepo = repository.NewAlertRepo(db)
		a.ReportRepo = repository.NewReportRepo(db)
	default:
		a.FeedbackRepo = repository.NewMemoryFeedbackRepo()
		a.AlertRepo = repository.NewMemoryAlertRepo()
		a.ReportRepo = repository.NewMemoryReportRepo()
	}
	return nil
}

func (a *App) openCache(ctx context.Context) error {
	switch a.Config.CacheBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: a.Config.RedisURI})
		a.redisClient = rdb

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		a.Logger.Info("connected to Redis", zap.String("addr", a.Config.RedisURI))

		a.SessionCache = cache.NewSessionCache(rdb)
		a.MetricCache = cache.NewMetricCache(rdb)
		a.WizardCache = cache.NewWizardCache(rdb)
	default:
		a.SessionCache = cache.NewMemorySessionCache()
		a.MetricCache = cache.NewMemoryMetricCache()
		a.WizardCache = cache.NewMemoryWizardCache()
	}
	return nil
}

// Handler builds the HTTP router over the app's services
func (a *App) Handler() http.Handler {
	return rest.NewRouter(a.Container)
}

// Start runs background jobs
func (a *App) Start() {
	a.Scheduler.Start()
}

// Close stops background work, flushes pending polls and disconnects backends
func (a *App) Close(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop(ctx)
	}
	if a.Polls != nil {
		a.Polls.Shutdown(ctx)
	}
	if a.Notifier != nil {
		a.Notifier.Close()
	}
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.Logger.Warn("disconnect mongodb", zap.Error(err))
		}
	}
}
