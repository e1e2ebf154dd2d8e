package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"audiobot/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PodcastUploader lädt gerenderte Podcast-Audios nach S3 hoch.
type PodcastUploader struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewPodcastUploader erstellt den S3-Client. Ein konfigurierter Endpoint
// überschreibt das Standard-AWS-Endpoint (z.B. für S3-kompatible Anbieter).
func NewPodcastUploader(cfg *config.Config) (*PodcastUploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3Key, cfg.S3Secret, "")),
	}
	if cfg.S3Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               cfg.S3Endpoint,
					SigningRegion:     cfg.S3Region,
					HostnameImmutable: true,
				}, nil
			},
		)
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, err
	}

	return &PodcastUploader{
		client:   s3.NewFromConfig(awsCfg),
		bucket:   cfg.S3Bucket,
		region:   cfg.S3Region,
		endpoint: cfg.S3Endpoint,
	}, nil
}

// UploadPodcast lädt die Audio-Bytes als audio/mpeg unter einem
// Zeitstempel-Key hoch und gibt die öffentliche URL zurück.
func (u *PodcastUploader) UploadPodcast(ctx context.Context, data []byte) (string, error) {
	key := fmt.Sprintf("podcasts/podcast_%s.mp3", time.Now().Format("20060102_150405"))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("audio/mpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	if u.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", u.endpoint, u.bucket, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}
