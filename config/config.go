// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package config

import (
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type ObjectStoreConfig struct {
	Provider  string `mapstructure:"provider" validate:"required,oneof=s3 minio"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint" validate:"required_if=Provider minio"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type RecordStoreConfig struct {
	Provider     string `mapstructure:"provider" validate:"required,oneof=dynamodb postgres"`
	Table        string `mapstructure:"table" validate:"required"`
	KeyAttribute string `mapstructure:"key_attribute" validate:"required"`
	Region       string `mapstructure:"region"`
	// TimeScale converts store timestamps into seconds; milliseconds by default.
	TimeScale float64 `mapstructure:"time_scale" validate:"gt=0"`
}

type PostgresAuth struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type PostgresConfig struct {
	Host               string       `mapstructure:"host"`
	Port               int          `mapstructure:"port"`
	DBName             string       `mapstructure:"db_name"`
	Auth               PostgresAuth `mapstructure:"auth"`
	MaxOpenConnection  int          `mapstructure:"max_open_connection"`
	MaxIdealConnection int          `mapstructure:"max_ideal_connection"`
	SslMode            string       `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host" validate:"required_if=Enabled true"`
	Port     int           `mapstructure:"port"`
	DB       int           `mapstructure:"db"`
	Password string        `mapstructure:"password"`
	LeaseTTL time.Duration `mapstructure:"lease_ttl" validate:"gt=0"`
}

type TransformConfig struct {
	FfmpegPath string        `mapstructure:"ffmpeg_path" validate:"required"`
	WorkDir    string        `mapstructure:"work_dir" validate:"required"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	ExtraArgs  []string      `mapstructure:"extra_args"`
}

type IdentityConfig struct {
	PathSeparator      string `mapstructure:"path_separator" validate:"required"`
	ExtensionSeparator string `mapstructure:"extension_separator" validate:"required"`
	IDSeparator        string `mapstructure:"id_separator" validate:"required"`
}

// Application config structure
type AppConfig struct {
	Name        string            `mapstructure:"service_name" validate:"required"`
	Version     string            `mapstructure:"version" validate:"required"`
	Env         string            `mapstructure:"env" validate:"required"`
	Host        string            `mapstructure:"host" validate:"required"`
	Port        int               `mapstructure:"port" validate:"required"`
	LogLevel    string            `mapstructure:"log_level" validate:"required"`
	LogPath     string            `mapstructure:"log_path"`
	ObjectStore ObjectStoreConfig `mapstructure:"object_store" validate:"required"`
	RecordStore RecordStoreConfig `mapstructure:"record_store" validate:"required"`
	Postgres    PostgresConfig    `mapstructure:"postgres"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Transform   TransformConfig   `mapstructure:"transform" validate:"required"`
	Identity    IdentityConfig    `mapstructure:"identity" validate:"required"`
}

// reading config and intializing configs for application
func InitConfig() (*viper.Viper, error) {
	vConfig := viper.NewWithOptions(viper.KeyDelimiter("__"))

	vConfig.AddConfigPath(".")
	vConfig.SetConfigName(".env")
	path := os.Getenv("ENV_PATH")
	if path != "" {
		log.Printf("env path %v", path)
		vConfig.SetConfigFile(path)
	}
	vConfig.SetConfigType("env")
	vConfig.AutomaticEnv()

	setDefault(vConfig)
	if err := vConfig.ReadInConfig(); err != nil {
		log.Printf("Reading from env variables.")
	}
	return vConfig, nil
}

func setDefault(v *viper.Viper) {
	// keeping watch on https://github.com/spf13/viper/issues/188
	// every key needs a default so AutomaticEnv can resolve it during Unmarshal

	v.SetDefault("SERVICE_NAME", "recording-redaction")
	v.SetDefault("VERSION", "0.0.1")
	v.SetDefault("ENV", "development")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 9090)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PATH", "")

	v.SetDefault("OBJECT_STORE__PROVIDER", "s3")
	v.SetDefault("OBJECT_STORE__REGION", "us-east-1")
	v.SetDefault("OBJECT_STORE__ENDPOINT", "")
	v.SetDefault("OBJECT_STORE__ACCESS_KEY", "")
	v.SetDefault("OBJECT_STORE__SECRET_KEY", "")
	v.SetDefault("OBJECT_STORE__USE_SSL", true)

	v.SetDefault("RECORD_STORE__PROVIDER", "dynamodb")
	v.SetDefault("RECORD_STORE__TABLE", "redaction_db")
	v.SetDefault("RECORD_STORE__KEY_ATTRIBUTE", "contactId")
	v.SetDefault("RECORD_STORE__REGION", "us-east-1")
	v.SetDefault("RECORD_STORE__TIME_SCALE", 1000)

	v.SetDefault("POSTGRES__HOST", "localhost")
	v.SetDefault("POSTGRES__PORT", 5432)
	v.SetDefault("POSTGRES__DB_NAME", "<>")
	v.SetDefault("POSTGRES__AUTH__USER", "<>")
	v.SetDefault("POSTGRES__AUTH__PASSWORD", "<>")
	v.SetDefault("POSTGRES__MAX_OPEN_CONNECTION", 10)
	v.SetDefault("POSTGRES__MAX_IDEAL_CONNECTION", 10)
	v.SetDefault("POSTGRES__SSL_MODE", "disable")

	v.SetDefault("REDIS__ENABLED", false)
	v.SetDefault("REDIS__HOST", "localhost")
	v.SetDefault("REDIS__PORT", 6379)
	v.SetDefault("REDIS__DB", 0)
	v.SetDefault("REDIS__PASSWORD", "")
	v.SetDefault("REDIS__LEASE_TTL", "15m")

	v.SetDefault("TRANSFORM__FFMPEG_PATH", "ffmpeg")
	v.SetDefault("TRANSFORM__WORK_DIR", os.TempDir())
	v.SetDefault("TRANSFORM__TIMEOUT", "10m")
	v.SetDefault("TRANSFORM__EXTRA_ARGS", "")

	v.SetDefault("IDENTITY__PATH_SEPARATOR", "/")
	v.SetDefault("IDENTITY__EXTENSION_SEPARATOR", ".")
	v.SetDefault("IDENTITY__ID_SEPARATOR", "_")
}

// Getting application config from viper
func GetApplicationConfig(v *viper.Viper) (*AppConfig, error) {
	var config AppConfig
	err := v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}
	config.Transform.ExtraArgs = compact(config.Transform.ExtraArgs)

	// valdating the app config
	validate := validator.New()
	err = validate.Struct(&config)
	if err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}
	return &config, nil
}

// compact drops the empty entry produced when a comma separated env value is blank.
func compact(values []string) []string {
	out := values[:0]
	for _, value := range values {
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}
