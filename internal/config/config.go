package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ObjectConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

// StorageConfig selects where the session slots survive restarts.
type StorageConfig struct {
	Backend   string
	Path      string
	KeyPrefix string
	Redis     RedisConfig
	Object    ObjectConfig
}

type UploadConfig struct {
	MaxBytes     int64
	AllowedTypes []string
}

type JobsConfig struct {
	ProductRefresh string
	SessionCheck   string
}

type SandboxConfig struct {
	Host          string
	Port          int
	JWTSecret     string
	TokenTTL      time.Duration
	PublicBaseURL string
}

type LoggingConfig struct {
	Level string
}

type AppConfig struct {
	Environment string
	API         APIConfig
	Storage     StorageConfig
	Upload      UploadConfig
	Jobs        JobsConfig
	Sandbox     SandboxConfig
	Logging     LoggingConfig
}

func Load() (*AppConfig, error) {
	return LoadFile("")
}

// LoadFile reads the given config file, or searches the default locations
// when path is empty. A missing default file is not an error.
func LoadFile(path string) (*AppConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("marketplace")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.config/marketplace")
	}

	v.SetEnvPrefix("MARKETPLACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("api.baseurl", "http://127.0.0.1:8080/api")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("api.useragent", "marketplace-client/1.0")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", defaultStatePath())
	v.SetDefault("storage.keyprefix", "marketplace")
	v.SetDefault("storage.redis.addr", "127.0.0.1:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.object.bucket", "marketplace-sessions")
	v.SetDefault("storage.object.usessl", false)
	v.SetDefault("storage.object.region", "us-east-1")

	v.SetDefault("upload.maxbytes", 2*1024*1024)
	v.SetDefault("upload.allowedtypes", []string{"image/jpeg", "image/png", "image/gif", "image/webp"})

	v.SetDefault("jobs.productrefresh", "0 */5 * * * *")
	v.SetDefault("jobs.sessioncheck", "*/30 * * * * *")

	v.SetDefault("sandbox.host", "127.0.0.1")
	v.SetDefault("sandbox.port", 8080)
	v.SetDefault("sandbox.jwtsecret", "sandbox-secret")
	v.SetDefault("sandbox.tokenttl", "24h")
	v.SetDefault("sandbox.publicbaseurl", "http://127.0.0.1:8080/files")

	v.SetDefault("logging.level", "")
}
