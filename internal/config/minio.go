package config

import (
	"os"
	"sync"
	"time"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

var (
	minioConfig *MinioConfig
	minioOnce   sync.Once
)

func LoadMinioConfig() *MinioConfig {
	minioOnce.Do(func() {
		minioConfig = &MinioConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "interview-recordings"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			// lifetime of a playback URL; a new one is signed on every read
			URLExpiry: getEnvDuration("MINIO_URL_EXPIRY", time.Hour),
		}
	})
	return minioConfig
}

func (c *MinioConfig) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != ""
}
