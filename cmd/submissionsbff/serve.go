package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"submissionsbff/internal/db"
	"submissionsbff/internal/gateway"
	"submissionsbff/internal/metrics"
	"submissionsbff/internal/server"
	"submissionsbff/internal/services"
	"submissionsbff/internal/storage"
	"submissionsbff/internal/store"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func seconds(n uint) time.Duration {
	return time.Duration(n) * time.Second
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	if err := validateServeConfig(config); err != nil {
		return err
	}

	logger, err := newLogger(config)
	if err != nil {
		return err
	}

	logger.WithField("config", config.String()).Debug("loaded config")

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	m := metrics.NewMetrics(metrics.NewRegistry())

	var recorder services.AuditRecorder = services.NewLogAuditRecorder(logger)
	if config.DatabaseURL != "" {
		pool, err := db.Connect(ctx, config.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		recorder = store.NewAuditRepository(pool)
		logger.Info("recording protective monitoring events to postgres")
	}

	retry := gateway.RetryPolicy{Attempts: config.RetryCount, BaseWait: seconds(config.RetryBaseSec)}

	accounts := gateway.NewAccountGateway(config.AccountBaseURL, gateway.NewRetryClient(logger, retry, seconds(config.AccountTimeoutSec)))
	submissions := gateway.NewSubmissionsGateway(config.SubmissionStatusBaseURL, gateway.NewRetryClient(logger, retry, seconds(config.SubmissionStatusTimeout)))
	commonData := gateway.NewCommonDataGateway(config.CommonDataBaseURL, gateway.NewRetryClient(logger, retry, seconds(config.CommonDataTimeoutSec)))
	fees := gateway.NewFeeCalculationGateway(config.FeeCalculationBaseURL, gateway.NewRetryClient(logger, retry, seconds(config.FeeCalculationTimeoutSec)))
	antivirus := gateway.NewAntivirusGateway(config.AntivirusBaseURL, gateway.NewClient(seconds(config.AntivirusTimeoutSec)))

	blobs := storage.NewBlobStorage(
		storage.NewS3Client(awsConfig, config.S3Endpoint, config.S3UsePathStyle),
		config.Containers(),
	)

	auditor := services.NewAuditor(recorder, logger, m)
	dispatcher := services.NewDispatcher(logger, m, config.ScanDispatchConcurrency, config.ScanDispatchQueueSize, config.ScanDispatchTimeout())

	uploadOpts := services.UploadOptions{
		MaxFileNameLength: config.MaxFileNameLength,
		ServiceTag:        config.AntivirusServiceTag,
		CollectionSuffix:  config.AntivirusCollectionSuffix,
	}

	jwkCache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	if err := jwkCache.Register(ctx, config.JWKSURL); err != nil {
		return fmt.Errorf("failed to register jwks with cache: %w", err)
	}

	authOpts := []server.JWTAuthenticatorOption{}
	if config.JWTIssuer != "" {
		authOpts = append(authOpts, server.WithIssuer(config.JWTIssuer))
	}

	cookieCodec, err := loadCookieCodec(config)
	if err != nil {
		return err
	}
	if cookieCodec != nil {
		authOpts = append(authOpts, server.WithCookie(config.CookieName, cookieCodec))
	}

	srv := server.New(config, logger, m, server.Dependencies{
		Auth:         server.NewJWTAuthenticator(jwkCache, config.JWKSURL, authOpts...),
		Identity:     accounts,
		Uploads:      services.NewUploadService(logger, submissions, antivirus, blobs, dispatcher, auditor, m, uploadOpts),
		Downloads:    services.NewDownloadService(logger, submissions, blobs, antivirus, auditor, m, uploadOpts),
		Submissions:  submissions,
		Applications: services.NewApplicationService(logger, submissions, commonData, fees),
		History:      services.NewHistoryService(logger, submissions, accounts),
	})

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("failed to stop server cleanly")
	}

	// Scans already dispatched keep running until they finish or time out.
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), config.ScanDispatchTimeout())
	defer cancelDrain()

	if err := dispatcher.Wait(drainCtx); err != nil {
		logger.WithError(err).Warn("abandoned antivirus dispatches still in flight")
		return err
	}

	return nil
}
