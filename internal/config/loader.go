package config

import (
	"github.com/flowlogic/ingest/internal/db"
	"github.com/spf13/viper"
)

// Config is the full service configuration: database settings plus the
// HTTP and ingestion knobs.
type Config struct {
	Database       db.Config
	ListenAddr     string
	AllowedOrigins []string
	MigrationsPath string
	UploadDir      string
	BatchSize      int
}

// Load reads config.yaml from configPath with environment overrides
// (FLOWLOGIC_ prefix, e.g. FLOWLOGIC_DATABASE_HOST). Missing file just
// means defaults plus env.
func Load(configPath string) (Config, error) {
	cfg := Config{
		Database:       db.DefaultConfig(),
		ListenAddr:     ":8080",
		AllowedOrigins: []string{"http://localhost:3000"},
		MigrationsPath: "./migrations",
		UploadDir:      "./uploads/ingestion",
		BatchSize:      0, // persister default
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("FLOWLOGIC")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.listen_addr")
	v.BindEnv("ingestion.upload_dir")
	v.BindEnv("ingestion.batch_size")

	// Config file not found? Use defaults + env.
	_ = v.ReadInConfig()

	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.listen_addr") {
		cfg.ListenAddr = v.GetString("server.listen_addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("migrations.path") {
		cfg.MigrationsPath = v.GetString("migrations.path")
	}
	if v.IsSet("ingestion.upload_dir") {
		cfg.UploadDir = v.GetString("ingestion.upload_dir")
	}
	if v.IsSet("ingestion.batch_size") {
		cfg.BatchSize = v.GetInt("ingestion.batch_size")
	}

	return cfg, nil
}
