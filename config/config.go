// server/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// --- Sub-configs, mirroring the YAML layout ---

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	DBName   string `mapstructure:"dbName"`
}

// ConnectionURI returns the configured URI, or builds an Atlas style SRV URI
// from the user/password/host triple.
func (m MongoConfig) ConnectionURI() string {
	if m.URI != "" {
		return m.URI
	}
	if m.Host == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		Host:     m.Host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	if m.User != "" {
		u.User = url.UserPassword(m.User, m.Password)
	}
	return u.String()
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secretKey"`
	Currency  string `mapstructure:"currency"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MediaConfig struct {
	Provider string `mapstructure:"provider"` // "s3", "cloudinary" or empty
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

type CloudinaryConfig struct {
	CloudName string `mapstructure:"cloudName"`
	APIKey    string `mapstructure:"apiKey"`
	APISecret string `mapstructure:"apiSecret"`
	Folder    string `mapstructure:"folder"`
}

type SeedConfig struct {
	AdminEmail string `mapstructure:"adminEmail"`
	AdminName  string `mapstructure:"adminName"`
}

type CORSConfig struct {
	AllowOrigins string `mapstructure:"allowOrigins"`
}

// Origins splits the comma separated origin list.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// --- Root config ---

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	App        AppConfig        `mapstructure:"app"`
	Mongo      MongoConfig      `mapstructure:"mongo"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Media      MediaConfig      `mapstructure:"media"`
	S3         S3Config         `mapstructure:"s3"`
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
	Seed       SeedConfig       `mapstructure:"seed"`
	CORS       CORSConfig       `mapstructure:"cors"`
}

var envBindings = map[string]string{
	"server.port":          "PORT",
	"app.env":              "APP_ENV",
	"mongo.uri":            "MONGO_URI",
	"mongo.user":           "DB_USER",
	"mongo.password":       "DB_PASS",
	"mongo.host":           "DB_HOST",
	"mongo.dbName":         "MONGO_DBNAME",
	"jwt.secret":           "ACCESS_TOKEN_SECRET",
	"stripe.secretKey":     "STRIPE_SECRET_KEY",
	"stripe.currency":      "STRIPE_CURRENCY",
	"redis.addr":           "REDIS_ADDR",
	"redis.password":       "REDIS_PASSWORD",
	"redis.db":             "REDIS_DB",
	"redis.ttl":            "REDIS_TTL",
	"media.provider":       "MEDIA_PROVIDER",
	"s3.bucket":            "S3_BUCKET",
	"s3.region":            "S3_REGION",
	"s3.accessKeyID":       "S3_ACCESS_KEY_ID",
	"s3.secretAccessKey":   "S3_SECRET_ACCESS_KEY",
	"s3.cloudFrontDomain":  "S3_CLOUDFRONT_DOMAIN",
	"cloudinary.cloudName": "CLOUDINARY_CLOUD_NAME",
	"cloudinary.apiKey":    "CLOUDINARY_API_KEY",
	"cloudinary.apiSecret": "CLOUDINARY_API_SECRET",
	"cloudinary.folder":    "CLOUDINARY_FOLDER",
	"seed.adminEmail":      "SEED_ADMIN_EMAIL",
	"seed.adminName":       "SEED_ADMIN_NAME",
	"cors.allowOrigins":    "CORS_ALLOW_ORIGINS",
}

// LoadConfig reads config.yaml from path (optional) and overlays environment
// variables. A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (config Config, err error) {
	// Missing .env is fine; real deployments inject the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", "5000")
	v.SetDefault("app.name", "medcamp-api-server")
	v.SetDefault("app.env", "production")
	v.SetDefault("mongo.dbName", "medCoordDB")
	v.SetDefault("stripe.currency", "usd")
	v.SetDefault("redis.ttl", 60*time.Second)
	v.SetDefault("cloudinary.folder", "camps")
	v.SetDefault("seed.adminName", "Admin")
	v.SetDefault("cors.allowOrigins", "*")

	v.AutomaticEnv()
	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return
		}
	}

	// Only a missing file is tolerated; the environment can carry everything.
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	err = config.Validate()
	return
}

// Validate reports configuration that would make the server unusable.
func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret (ACCESS_TOKEN_SECRET) is required")
	}
	if c.Mongo.ConnectionURI() == "" {
		return errors.New("mongo.uri (MONGO_URI) or mongo.host (DB_HOST) is required")
	}
	switch c.Media.Provider {
	case "", "s3", "cloudinary":
	default:
		return fmt.Errorf("unknown media.provider %q", c.Media.Provider)
	}
	return nil
}
