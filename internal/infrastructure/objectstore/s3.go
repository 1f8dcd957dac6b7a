// Package objectstore guarda avatares en un bucket S3 (o compatible: R2, MinIO).
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/luchotourn/menusemanal-sub000/internal/application/ports"
	appconfig "github.com/luchotourn/menusemanal-sub000/pkg/config"
)

var _ ports.AvatarStorage = (*S3Store)(nil)

// S3Store implementa ports.AvatarStorage.
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3 construye el cliente y verifica que el bucket exista.
// Sin claves explícitas usa la cadena de credenciales por defecto de AWS.
func NewS3(ctx context.Context, cfg appconfig.StorageConfig) (*S3Store, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.Region = cfg.Region
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
			return nil, fmt.Errorf("bucket '%s' no existe", cfg.Bucket)
		}
		return nil, fmt.Errorf("verificar bucket: %w", err)
	}

	return &S3Store{client: client, bucket: cfg.Bucket, publicURL: publicBase(cfg)}, nil
}

// Upload sube el objeto y devuelve su URL pública.
func (s *S3Store) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

// publicBase URL bajo la que se sirven los objetos.
func publicBase(cfg appconfig.StorageConfig) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}
