package backup

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/edupass/internal/common"
	sc "github.com/dmitrijs2005/edupass/internal/server/config"
)

var newMinioSinkFromOptions = NewMinioSink

// NewSink builds the Sink selected by cfg.BackupDriver.
func NewSink(ctx context.Context, cfg *sc.Config) (Sink, error) {
	switch cfg.BackupDriver {
	case common.BackupDriverS3:
		return NewS3Sink(S3Options{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
		}), nil
	case common.BackupDriverMinio:
		sink, err := newMinioSinkFromOptions(ctx, MinioOptions{
			Endpoint:  cfg.S3BaseEndpoint,
			AccessKey: cfg.S3RootUser,
			SecretKey: cfg.S3RootPassword,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		return sink, nil
	case "":
		return nil, ErrNoSink
	}
	return nil, fmt.Errorf("unknown backup driver %q", cfg.BackupDriver)
}
