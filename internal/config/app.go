package config

import "sync"

type AppConfig struct {
	Name      string
	Env       string
	Port      string
	LogLevel  string
	LogFormat string
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		appConfig = &AppConfig{
			Name:      getEnv("APP_NAME", "interview-minds"),
			Env:       getEnv("APP_ENV", "development"),
			Port:      getEnv("APP_PORT", ":8000"),
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		}
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
