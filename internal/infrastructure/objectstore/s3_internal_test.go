package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	appconfig "github.com/luchotourn/menusemanal-sub000/pkg/config"
)

func TestPublicBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  appconfig.StorageConfig
		want string
	}{
		{"url pública explícita", appconfig.StorageConfig{Bucket: "b", PublicURL: "https://cdn.example.com/"}, "https://cdn.example.com"},
		{"endpoint compatible", appconfig.StorageConfig{Bucket: "b", Endpoint: "http://minio:9000"}, "http://minio:9000/b"},
		{"aws", appconfig.StorageConfig{Bucket: "b", Region: "us-east-1"}, "https://b.s3.us-east-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBase(tt.cfg))
		})
	}
}
