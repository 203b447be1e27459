package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	apictx "github.com/driftchat/driftchat-server/internal/api/http/context"
	"github.com/driftchat/driftchat-server/internal/api/http/router"
	"github.com/driftchat/driftchat-server/internal/config"
	"github.com/driftchat/driftchat-server/internal/crypto"
	"github.com/driftchat/driftchat-server/internal/logger"
	"github.com/driftchat/driftchat-server/internal/model"
	"github.com/driftchat/driftchat-server/internal/realtime"
	"github.com/driftchat/driftchat-server/internal/repository/postgres"
	"github.com/driftchat/driftchat-server/internal/server"
	"github.com/driftchat/driftchat-server/internal/service"
	storage "github.com/driftchat/driftchat-server/internal/storage/minio"
	"github.com/driftchat/driftchat-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)
	ctxMgr := apictx.NewManager()

	codec, err := crypto.NewCodec(cfg.Message.Secret)
	if err != nil {
		logger.Fatal("failed to initialize message codec", "error", err)
	}

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	registry := realtime.NewRegistry()
	notifier := realtime.NewNotifier(registry, logger.Component("realtime"))

	authService := service.NewAuth(userRepo, tokenManager, storageClient, logger.Component("auth"))
	conversationService := service.NewConversation(messageRepo, userRepo, storageClient, codec, notifier, logger.Component("conversation"))

	r := router.New(authService, conversationService, registry, tokenManager, ctxMgr, logger.Component("http"))
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
