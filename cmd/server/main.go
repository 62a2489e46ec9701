package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/quickgrab/backend/internal/advisor"
	"github.com/quickgrab/backend/internal/ai"
	"github.com/quickgrab/backend/internal/config"
	"github.com/quickgrab/backend/internal/db"
	httpHandlers "github.com/quickgrab/backend/internal/http/handlers"
	httpRouter "github.com/quickgrab/backend/internal/http/router"
	"github.com/quickgrab/backend/internal/logger"
	"github.com/quickgrab/backend/internal/repository"
	"github.com/quickgrab/backend/internal/service"
	"github.com/quickgrab/backend/internal/storage"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	itemRepo := repository.NewItemRepository(dbConn)
	transactionRepo := repository.NewTransactionRepository(dbConn)
	messageRepo := repository.NewMessageRepository(dbConn)
	ratingRepo := repository.NewRatingRepository(dbConn)
	disputeRepo := repository.NewDisputeRepository(dbConn)

	// Советники: эвристики по умолчанию, внешний AI поверх них при наличии
	// конфигурации. Любой сбой внешнего вызова откатывается на эвристику.
	var (
		priceChecker    advisor.PriceChecker    = advisor.NewHeuristicPriceChecker(itemRepo)
		searchParser    advisor.SearchParser    = advisor.NewHeuristicSearchParser()
		disputeResolver advisor.DisputeResolver = advisor.NewHeuristicDisputeResolver()
		moderator       advisor.Moderator       = advisor.NewHeuristicModerator()
		meetupAdvisor   advisor.MeetupAdvisor   = advisor.NewHeuristicMeetupAdvisor()
	)
	if cfg.AIBaseURL != "" && cfg.AIModel != "" {
		aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIModel, cfg.AITimeout)
		priceChecker = advisor.NewAIPriceChecker(aiClient, priceChecker)
		searchParser = advisor.NewAISearchParser(aiClient, searchParser)
		disputeResolver = advisor.NewAIDisputeResolver(aiClient, disputeResolver)
	}

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	profileService := service.NewProfileService(userRepo, ratingRepo, itemRepo)
	itemService := service.NewItemService(itemRepo, priceChecker)
	searchService := service.NewSearchService(itemRepo, searchParser)
	transactionService := service.NewTransactionService(transactionRepo, itemRepo, userRepo)
	messageService := service.NewMessageService(messageRepo, transactionRepo, moderator, meetupAdvisor)
	disputeService := service.NewDisputeService(disputeRepo, transactionRepo, messageRepo, disputeResolver)
	ratingService := service.NewRatingService(ratingRepo, userRepo, transactionRepo)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(profileService)
	itemHandler := httpHandlers.NewItemHandler(itemService)
	searchHandler := httpHandlers.NewSearchHandler(searchService)
	transactionHandler := httpHandlers.NewTransactionHandler(transactionService)
	messageHandler := httpHandlers.NewMessageHandler(messageService)
	disputeHandler := httpHandlers.NewDisputeHandler(disputeService)
	ratingHandler := httpHandlers.NewRatingHandler(ratingService)
	mediaHandler := httpHandlers.NewMediaHandler(photoStorage)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, profileHandler, itemHandler, searchHandler,
		transactionHandler, messageHandler, disputeHandler, ratingHandler, mediaHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
