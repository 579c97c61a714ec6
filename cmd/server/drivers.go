package main

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/dlsms/dlsms-backend/internal/config"
	"github.com/dlsms/dlsms-backend/internal/notifier"
	"github.com/dlsms/dlsms-backend/internal/storage"
	"github.com/rs/zerolog"
)

// newMailer selects the email driver named by MAIL_DRIVER.
func newMailer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (notifier.Mailer, error) {
	switch cfg.MailDriver {
	case config.MailDriverSES:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return notifier.NewSESMailer(sesv2.NewFromConfig(awsCfg), cfg.MailFrom, log), nil
	case config.MailDriverSendGrid:
		return notifier.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom, log), nil
	case config.MailDriverLog:
		return notifier.NewLogMailer(log), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.MailDriver)
	}
}

// newObjectStore selects the file storage driver named by STORAGE_DRIVER.
func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return storage.NewS3Store(s3.NewFromConfig(awsCfg), cfg.S3Bucket), nil
	case config.StorageDriverLocal:
		return storage.NewLocalStore(cfg.UploadDir, "/uploads"), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
