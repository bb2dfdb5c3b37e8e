package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"

	"submissionsbff/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func loadConfig(cCtx *cli.Context) (*types.Config, error) {
	if envFile := cCtx.String("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	c := new(types.Config)
	if err := envconfig.Process(cCtx.String("env-prefix"), c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	return c, nil
}

// validateServeConfig checks the settings only the serve command needs.
func validateServeConfig(c *types.Config) error {
	required := map[string]string{
		"JWKS_URL":                   c.JWKSURL,
		"ACCOUNT_BASE_URL":           c.AccountBaseURL,
		"ANTIVIRUS_BASE_URL":         c.AntivirusBaseURL,
		"SUBMISSION_STATUS_BASE_URL": c.SubmissionStatusBaseURL,
		"COMMON_DATA_BASE_URL":       c.CommonDataBaseURL,
		"FEE_CALCULATION_BASE_URL":   c.FeeCalculationBaseURL,
	}

	var errs []error
	for key, value := range required {
		if value == "" {
			errs = append(errs, fmt.Errorf("set %s", key))
		}
	}

	return errors.Join(errs...)
}

func newLogger(c *types.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)

	return logger, nil
}

// loadCookieCodec returns nil when no cookie keys are configured.
func loadCookieCodec(c *types.Config) (*securecookie.SecureCookie, error) {
	if c.CookieHashKey == "" {
		return nil, nil
	}

	hashKey, err := base64.StdEncoding.DecodeString(c.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie hash key: %w", err)
	}

	var blockKey []byte
	if c.CookieBlockKey != "" {
		blockKey, err = base64.StdEncoding.DecodeString(c.CookieBlockKey)
		if err != nil {
			return nil, fmt.Errorf("decode cookie block key: %w", err)
		}
	}

	return securecookie.New(hashKey, blockKey), nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}
