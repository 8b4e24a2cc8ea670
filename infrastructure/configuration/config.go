package configuration

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"ytcurator/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App      App      `mapstructure:"app"`
	Cache    Cache    `mapstructure:"cache"`
	Mongo    Mongo    `mapstructure:"mongo"`
	Redis    Redis    `mapstructure:"redis"`
	Postgres Postgres `mapstructure:"postgres"`
	MySQL    Db       `mapstructure:"mysql"`
	MSSQL    Db       `mapstructure:"mssql"`
	YouTube  YouTube  `mapstructure:"youtube"`
	Token    Token    `mapstructure:"token"`
	Notify   Notify   `mapstructure:"notify"`
	Logger   Logger   `mapstructure:"logger"`
}

type App struct {
	Port int `mapstructure:"port"`
	// SecretKey enables HS256 bearer auth on /api when set
	SecretKey      string   `mapstructure:"secretKey"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
	// PostAuthRedirect receives the browser after the OAuth callback; empty answers with JSON
	PostAuthRedirect string `mapstructure:"postAuthRedirect"`
}

type Cache struct {
	// Driver is one of mongo, redis, postgres, mysql, memory, none
	Driver           string        `mapstructure:"driver"`
	TTL              time.Duration `mapstructure:"ttl"`
	ConnectTimeout   time.Duration `mapstructure:"connectTimeout"`
	OperationTimeout time.Duration `mapstructure:"operationTimeout"`
}

type Mongo struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type Redis struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslMode"`
}

// Db is a generic host/port/credentials database section
type Db struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type YouTube struct {
	ClientID          string        `mapstructure:"clientId"`
	ClientSecret      string        `mapstructure:"clientSecret"`
	RedirectURL       string        `mapstructure:"redirectUrl"`
	RequestTimeout    time.Duration `mapstructure:"requestTimeout"`
	RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
	Burst             int           `mapstructure:"burst"`
}

type Token struct {
	// Store is file, postgres or mssql
	Store string `mapstructure:"store"`
	File  string `mapstructure:"file"`
}

type Notify struct {
	PubsubProjectID     string `mapstructure:"pubsubProjectId"`
	PubsubTopic         string `mapstructure:"pubsubTopic"`
	ServiceBusNamespace string `mapstructure:"serviceBusNamespace"`
	ServiceBusQueue     string `mapstructure:"serviceBusQueue"`
}

type Logger struct {
	Format string `mapstructure:"format"`
	Level  string `mapstructure:"level"`
	ToFile bool   `mapstructure:"toFile"`
}

var C Config

var defaults = map[string]interface{}{
	"app.port":                   10001,
	"app.secretKey":              "",
	"app.allowedOrigins":         []string{"http://localhost:3000", "http://localhost:4200"},
	"app.postAuthRedirect":       "",
	"cache.driver":               "mongo",
	"cache.ttl":                  "30m",
	"cache.connectTimeout":       "5s",
	"cache.operationTimeout":     "5s",
	"mongo.uri":                  "mongodb://localhost:27017",
	"mongo.database":             "yt_desktop_cache",
	"redis.host":                 "localhost",
	"redis.port":                 "6379",
	"redis.username":             "",
	"redis.password":             "",
	"redis.db":                   0,
	"redis.prefix":               "ytcurator",
	"postgres.host":              "localhost",
	"postgres.port":              "5432",
	"postgres.user":              "postgres",
	"postgres.password":          "",
	"postgres.name":              "ytcurator",
	"postgres.sslMode":           "disable",
	"mysql.host":                 "localhost",
	"mysql.port":                 "3306",
	"mysql.user":                 "root",
	"mysql.password":             "",
	"mysql.name":                 "ytcurator",
	"mssql.host":                 "localhost",
	"mssql.port":                 "1433",
	"mssql.user":                 "sa",
	"mssql.password":             "",
	"mssql.name":                 "ytcurator",
	"youtube.clientId":           "",
	"youtube.clientSecret":       "",
	"youtube.redirectUrl":        "",
	"youtube.requestTimeout":     "15s",
	"youtube.requestsPerSecond":  5.0,
	"youtube.burst":              5,
	"token.store":                "file",
	"token.file":                 "token.json",
	"notify.pubsubProjectId":     "",
	"notify.pubsubTopic":         "",
	"notify.serviceBusNamespace": "",
	"notify.serviceBusQueue":     "",
	"logger.format":              "json",
	"logger.level":               "info",
	"logger.toFile":              false,
}

// LoadConfig reads config[-$ENV].json (when present) and environment overrides into C.
// Every key can be set from the environment in snake case, e.g. youtube.clientId -> YOUTUBE_CLIENT_ID.
// The joined form (YOUTUBE_CLIENTID) is accepted too.
func LoadConfig() error {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	name := getConfig()
	v.SetConfigName(name)
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key := range defaults {
		if err := v.BindEnv(key, EnvName(key), strings.ToUpper(strings.ReplaceAll(key, ".", "_"))); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logger.GetLogger().WithField("config", name).Info("Config file not found, using defaults and environment")
		} else {
			return fmt.Errorf("read config %s: %w", name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	applyLegacyEnv(&cfg)
	if cfg.YouTube.RedirectURL == "" {
		cfg.YouTube.RedirectURL = fmt.Sprintf("http://localhost:%d/auth/youtube/callback", cfg.App.Port)
	}
	C = cfg
	logger.GetLogger().WithFields(map[string]interface{}{
		"config":      name,
		"cacheDriver": C.Cache.Driver,
		"tokenStore":  C.Token.Store,
		"port":        C.App.Port,
	}).Info("Config set up successfully")
	return nil
}

// EnvName is the environment variable for a config key: youtube.clientId -> YOUTUBE_CLIENT_ID
func EnvName(key string) string {
	var b strings.Builder
	prev := rune(0)
	for _, r := range key {
		switch {
		case r == '.':
			b.WriteByte('_')
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			b.WriteByte('_')
			b.WriteRune(r)
		default:
			b.WriteRune(unicode.ToUpper(r))
		}
		prev = r
	}
	return b.String()
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

// applyLegacyEnv honours the variable names used by earlier deployments
func applyLegacyEnv(C *Config) {
	if v := os.Getenv("MONGODB_URI"); v != "" {
		C.Mongo.URI = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" && C.YouTube.ClientID == "" {
		C.YouTube.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" && C.YouTube.ClientSecret == "" {
		C.YouTube.ClientSecret = v
	}
	if v := os.Getenv("MSSQL_PASSWORD"); v != "" && C.MSSQL.Password == "" {
		C.MSSQL.Password = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	if C.Cache.TTL <= 0 {
		C.Cache.TTL = 30 * time.Minute
	}
}
