package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config представляет основную конфигурацию сервиса агрегации новостей.
// Содержит настройки сервера, логгера, пайплайна и базы данных.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Logger   LoggerConfig   `json:"logger"`
	App      AppConfig      `json:"app"`
	Database DatabaseConfig `json:"database"`
}

// ServerConfig содержит настройки HTTP-сервера приложения.
type ServerConfig struct {
	Address string `json:"address"`
}

// LoggerConfig содержит настройки системы логирования.
// Определяет уровень детализации логов (debug, info, warn, error).
type LoggerConfig struct {
	Level string `json:"level"`
}

// AppConfig содержит настройки пайплайна инжеста и API.
// CronSecret — общий секрет, защищающий эндпоинт ручного запуска.
type AppConfig struct {
	ArticlesPerPage int    `json:"articles_per_page"`
	CronSecret      string `json:"cron_secret"`
	FeedTimeout     string `json:"feed_timeout"`
	ExtractTimeout  string `json:"extract_timeout"`
	RunTimeout      string `json:"run_timeout"`
}

// DatabaseConfig содержит параметры подключения к PostgreSQL.
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// DSN возвращает строку подключения к PostgreSQL в формате URI.
// Используется для установки соединения через pgxpool.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode)
}

// Load загружает конфигурацию из JSON-файла по указанному пути.
// Возвращает ошибку если файл не существует или содержит некорректный JSON.
// Незаданные поля получают значения по умолчанию.
func Load(configPath string) (*Config, error) {
	cfg := New()
	fileData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := json.Unmarshal(fileData, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from file %s: %w", configPath, err)
	}
	return cfg, nil
}

// New создает новый экземпляр Config со значениями по умолчанию.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		App: AppConfig{
			ArticlesPerPage: 10,
			FeedTimeout:     "30s",
			ExtractTimeout:  "15s",
			RunTimeout:      "10m",
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
	}
}

// FeedTimeoutDuration возвращает таймаут обработки одной ленты.
func (c *AppConfig) FeedTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.FeedTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ExtractTimeoutDuration возвращает таймаут извлечения контента одной статьи.
func (c *AppConfig) ExtractTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ExtractTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// RunTimeoutDuration возвращает общий таймаут одного запуска пайплайна.
func (c *AppConfig) RunTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.RunTimeout)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// Validate проверяет корректность конфигурации.
// Возвращает ошибку с описанием первой найденной проблемы.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is not set")
	}
	if c.Database.Username == "" {
		return fmt.Errorf("database username is not set")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database password is not set")
	}
	if c.App.ArticlesPerPage <= 0 {
		return fmt.Errorf("app.articles_per_page must be a positive number")
	}
	if c.App.CronSecret == "" {
		return fmt.Errorf("app.cron_secret is not set")
	}
	if _, err := time.ParseDuration(c.App.FeedTimeout); err != nil {
		return fmt.Errorf("invalid app.feed_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.App.ExtractTimeout); err != nil {
		return fmt.Errorf("invalid app.extract_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.App.RunTimeout); err != nil {
		return fmt.Errorf("invalid app.run_timeout: %w", err)
	}
	return nil
}
