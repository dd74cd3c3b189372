package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"predu/internal/adapter/api"
	"predu/internal/adapter/api/handler"
	apimiddleware "predu/internal/adapter/api/middleware"
	"predu/internal/adapter/api/router"
	"predu/internal/adapter/repository"
	domainrepo "predu/internal/domain/repository"
	"predu/internal/domain/service"
	"predu/internal/infrastructure/firebase"
	"predu/internal/infrastructure/kvstore"
	"predu/internal/infrastructure/presence"
	"predu/internal/infrastructure/ratelimit"
	"predu/internal/infrastructure/storage"
	"predu/internal/infrastructure/websocket"
	"predu/internal/usecase"
	"predu/pkg/config"
	"predu/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opt option.ClientOption
	if cfg.ServiceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON))
	} else {
		if _, err := os.Stat(cfg.ServiceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", cfg.ServiceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", cfg.ServiceAccountPath)
		opt = option.WithCredentialsFile(cfg.ServiceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:   cfg.FirebaseProject,
		DatabaseURL: cfg.FirebaseDatabaseURL,
	}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	var redisClient redis.UniversalClient
	if cfg.RedisAddr != "" {
		redisClient = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.RedisAddr},
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
		}
		defer redisClient.Close()
	}

	notificationKV, err := newNotificationKV(cfg, redisClient)
	if err != nil {
		log.Fatalf("Failed to open notification store: %v", err)
	}

	ephemeralPresence, err := newPresenceStore(ctx, cfg, firebaseApp, redisClient)
	if err != nil {
		log.Fatalf("Failed to initialize presence store: %v", err)
	}

	profileRepo := repository.NewFirestoreProfileRepository(firestoreClient)
	tutorRequestRepo := repository.NewFirestoreTutorRequestRepository(firestoreClient)
	institutionRepo := repository.NewFirestoreInstitutionRepository(firestoreClient)
	fileMetadataRepo := repository.NewFirestoreFileMetadataRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey, cfg.IdentityToolkitBaseURL)

	notificationHub := usecase.NewNotificationHub(func(userID string) domainrepo.NotificationStore {
		return repository.NewKVNotificationStore(kvstore.UserScope(notificationKV, userID))
	}, cfg.NotificationsMax)
	notificationHub.StartEvictionRoutine(ctx.Done(), 10*time.Minute, 30*time.Minute)

	rateLimiter := ratelimit.NewRateLimiter(map[string]ratelimit.Limit{
		ratelimit.ActionVocationalChat: ratelimit.PerMinute(cfg.ChatRatePerMinute),
		ratelimit.ActionAuth:           ratelimit.PerMinute(10),
	})
	rateLimiter.StartCleanupRoutine(ctx.Done())

	roleResolver := usecase.NewRoleResolver(profileRepo, tutorRequestRepo, notificationHub)
	routingUseCase := usecase.NewRoutingUseCase(roleResolver)
	authUseCase := usecase.NewAuthUseCase(profileRepo, firebaseAuthClient, notificationHub)
	profileUseCase := usecase.NewProfileUseCase(profileRepo)
	tutorRequestUseCase := usecase.NewTutorRequestUseCase(tutorRequestRepo, profileRepo)
	institutionUseCase := usecase.NewInstitutionUseCase(institutionRepo)
	fileUseCase := usecase.NewFileUseCase(storageClient, fileMetadataRepo)
	vocationalChatUseCase := usecase.NewVocationalChatUseCase(
		service.NewFlowPromptService(cfg.PromptFlowURL, cfg.PromptTimeout),
		rateLimiter,
	)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	handler.Setup(
		authUseCase,
		routingUseCase,
		notificationHub,
		profileUseCase,
		tutorRequestUseCase,
		institutionUseCase,
		fileUseCase,
		vocationalChatUseCase,
	)
	handler.SetupHealthHandler(wsManager)

	wsHandler := handler.NewWebSocketHandler(ctx, wsManager, websocket.SessionDeps{
		Verifier: firebaseAuthClient,
		Routing:  routingUseCase,
		Hub:      notificationHub,
		Presence: ephemeralPresence,
		Record:   profileRepo,
	})

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authUseCase)
	adminMiddleware := apimiddleware.NewAdminMiddleware(profileRepo)

	router.Setup(e, authMiddleware, adminMiddleware, rateLimiter, wsHandler)

	go func() {
		log.Printf("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

// newNotificationKV picks where per-user notification lists live.
func newNotificationKV(cfg *config.Config, redisClient redis.UniversalClient) (kvstore.Store, error) {
	if cfg.NotificationBackend == "redis" {
		if redisClient == nil {
			return nil, errors.New("NOTIFICATION_BACKEND=redis requires REDIS_ADDR")
		}
		logger.Info("Notifications stored in Redis")
		return kvstore.NewRedisStore(redisClient, "predu"), nil
	}
	logger.Info("Notifications stored under %s", cfg.StoreDir)
	return kvstore.NewFileStore(cfg.StoreDir)
}

func newPresenceStore(ctx context.Context, cfg *config.Config, app *fbapp.App, redisClient redis.UniversalClient) (presence.EphemeralStore, error) {
	if cfg.PresenceBackend == "redis" {
		if redisClient == nil {
			return nil, errors.New("PRESENCE_BACKEND=redis requires REDIS_ADDR")
		}
		logger.Info("Presence stored in Redis")
		return presence.NewRedisStore(redisClient), nil
	}

	dbClient, err := app.Database(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Presence stored in the Realtime Database")
	return presence.NewRealtimeDBStore(dbClient), nil
}
