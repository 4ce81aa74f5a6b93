package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

type Config struct {
	Env          string        `env:"GO_ENV" envDefault:"development"`
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":7070"`
	DatabasePath string        `env:"DATABASE_PATH" envDefault:"database.db"`
	BodyLimit    string        `env:"BODY_LIMIT" envDefault:"2M"`
	NodeID       int64         `env:"NODE_ID" envDefault:"1"`
	TokenSecret  string        `env:"TOKEN_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
	PageSize     int           `env:"PAGE_SIZE" envDefault:"25"`
	MaxPageSize  int           `env:"MAX_PAGE_SIZE" envDefault:"100"`
	SSMRegion    string        `env:"AWS_SSM_REGION" envDefault:"us-east-2"`
	SSMPrefix    string        `env:"SSM_PREFIX" envDefault:"/noteshare/prod/"`
	S3Region     string        `env:"AWS_S3_REGION" envDefault:"us-east-2"`
	S3Bucket     string        `env:"S3_BUCKET_NAME"`
	BackupPrefix string        `env:"BACKUP_PREFIX" envDefault:"backups/"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load fills the environment (.env in development, SSM Parameter Store in
// production) and builds the Config from it.
func Load(ctx context.Context) (*Config, error) {
	if os.Getenv("GO_ENV") == "production" {
		if err := loadProdEnv(ctx, getenv("SSM_PREFIX", "/noteshare/prod/"), getenv("AWS_SSM_REGION", "us-east-2")); err != nil {
			return nil, err
		}
	} else if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("unable to load .env: %w", err)
	}
	return FromEnv(env.ToMap(os.Environ()))
}

// FromEnv builds the Config from environ, falling back to the envDefault
// of every key it does not set.
func FromEnv(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET must be set")
	}
	if c.PageSize <= 0 || c.MaxPageSize <= 0 {
		return fmt.Errorf("page sizes must be positive")
	}
	if c.PageSize > c.MaxPageSize {
		c.PageSize = c.MaxPageSize
	}
	return nil
}

func loadProdEnv(ctx context.Context, prefix, region string) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	loaded := 0
	prefixLength := len(prefix)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("unable to load prod environment: %w", err)
		}

		// Export vars
		for _, param := range out.Parameters {
			key := aws.ToString(param.Name)[prefixLength:]
			if err := os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return fmt.Errorf("unable to set environment variable: %w", err)
			}
			loaded++
		}
	}
	log.Debugf("loaded %d prod environment variables", loaded)
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
