package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/edugen-backend/internal/data/db"
	"github.com/yungbote/edugen-backend/internal/modules/lesson/steps"
	"github.com/yungbote/edugen-backend/internal/normalization"
	"github.com/yungbote/edugen-backend/internal/platform/envutil"
	"github.com/yungbote/edugen-backend/internal/platform/gcp"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
	"github.com/yungbote/edugen-backend/internal/platform/openai"
)

type Config struct {
	LogMode     string `yaml:"log_mode"`
	Port        string `yaml:"port"`
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`

	OutputDir       string        `yaml:"output_dir"`
	TemplatePath    string        `yaml:"template_path"`
	Voice           string        `yaml:"voice"`
	BackgroundImage string        `yaml:"background_image"`
	FontPath        string        `yaml:"font_path"`
	FrameWidth      int           `yaml:"frame_width"`
	FrameHeight     int           `yaml:"frame_height"`
	FontSize        float64       `yaml:"font_size"`
	VideoFPS        int           `yaml:"video_fps"`
	UnitConcurrency int           `yaml:"unit_concurrency"`
	UnitTimeout     time.Duration `yaml:"unit_timeout"`
	DraftTimeout    time.Duration `yaml:"draft_timeout"`
	PersistTimeout  time.Duration `yaml:"persist_timeout"`
	VideoTimeout    time.Duration `yaml:"video_timeout"`

	JWTSecretKey    string        `yaml:"jwt_secret_key"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	CORSOrigins     string        `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisChannel  string `yaml:"redis_channel"`

	OpenAI openai.Config    `yaml:"-"`
	DB     db.Config        `yaml:"-"`
	Mirror gcp.MirrorConfig `yaml:"-"`
}

func defaultConfig() Config {
	return Config{
		LogMode:         "development",
		Port:            "8080",
		ServiceName:     "edugen",
		Environment:     "local",
		OutputDir:       "output",
		Voice:           steps.DefaultVoice,
		FrameWidth:      1920,
		FrameHeight:     1080,
		FontSize:        48,
		VideoFPS:        24,
		UnitConcurrency: 1,
		UnitTimeout:     2 * time.Minute,
		DraftTimeout:    2 * time.Minute,
		PersistTimeout:  30 * time.Second,
		VideoTimeout:    5 * time.Minute,
		JWTSecretKey:    "defaultsecret",
		AccessTokenTTL:  time.Hour,
		ShutdownTimeout: 10 * time.Second,
		RedisChannel:    "edugen:runs",
	}
}

// LoadEnvFiles loads .env from the working directory when present. Variables
// already set in the process win.
func LoadEnvFiles() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadConfig layers defaults, the optional YAML file named by EDUGEN_CONFIG
// and environment variables, in that order.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("EDUGEN_CONFIG", ""); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()

	cfg.OpenAI = openai.ConfigFromEnv()
	cfg.DB = db.ConfigFromEnv()
	mirror, err := gcp.MirrorConfigFromEnv()
	if err != nil {
		return Config{}, fmt.Errorf("object storage config: %w", err)
	}
	cfg.Mirror = mirror

	if !steps.ValidVoice(cfg.Voice) {
		return Config{}, fmt.Errorf("%w: %q", steps.ErrUnknownVoice, cfg.Voice)
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)
	c.Port = envutil.String("PORT", c.Port)
	c.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.ServiceName)
	c.Environment = envutil.String("APP_ENV", c.Environment)

	c.OutputDir = envutil.String("EDUGEN_OUTPUT_DIR", c.OutputDir)
	c.TemplatePath = envutil.String("EDUGEN_PROMPT_TEMPLATE", c.TemplatePath)
	c.Voice = normalization.Lower(envutil.String("EDUGEN_VOICE", c.Voice))
	c.BackgroundImage = envutil.String("EDUGEN_BACKGROUND_IMAGE", c.BackgroundImage)
	c.FontPath = envutil.String("EDUGEN_FONT_PATH", c.FontPath)
	c.FrameWidth = envutil.Int("EDUGEN_FRAME_WIDTH", c.FrameWidth)
	c.FrameHeight = envutil.Int("EDUGEN_FRAME_HEIGHT", c.FrameHeight)
	c.FontSize = envutil.Float("EDUGEN_FONT_SIZE", c.FontSize)
	c.VideoFPS = envutil.Int("EDUGEN_VIDEO_FPS", c.VideoFPS)
	c.UnitConcurrency = envutil.Int("EDUGEN_UNIT_CONCURRENCY", c.UnitConcurrency)
	c.UnitTimeout = envutil.Seconds("EDUGEN_UNIT_TIMEOUT_SECONDS", c.UnitTimeout)
	c.DraftTimeout = envutil.Seconds("EDUGEN_DRAFT_TIMEOUT_SECONDS", c.DraftTimeout)
	c.PersistTimeout = envutil.Seconds("EDUGEN_PERSIST_TIMEOUT_SECONDS", c.PersistTimeout)
	c.VideoTimeout = envutil.Seconds("EDUGEN_VIDEO_TIMEOUT_SECONDS", c.VideoTimeout)

	c.JWTSecretKey = envutil.String("JWT_SECRET_KEY", c.JWTSecretKey)
	c.AccessTokenTTL = envutil.Seconds("ACCESS_TOKEN_TTL", c.AccessTokenTTL)
	c.CORSOrigins = envutil.String("CORS_ALLOWED_ORIGINS", c.CORSOrigins)
	c.ShutdownTimeout = envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", c.ShutdownTimeout)

	c.RedisAddr = envutil.String("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = envutil.String("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = envutil.Int("REDIS_DB", c.RedisDB)
	c.RedisChannel = envutil.String("REDIS_CHANNEL", c.RedisChannel)
}

// LogSummary reports the effective settings without secrets.
func (c Config) LogSummary(log *logger.Logger) {
	log.Info("Config loaded",
		"output_dir", c.OutputDir,
		"voice", c.Voice,
		"frame", fmt.Sprintf("%dx%d", c.FrameWidth, c.FrameHeight),
		"unit_concurrency", c.UnitConcurrency,
		"database", driverName(c.DB),
		"redis", c.RedisAddr != "",
		"artifact_bucket", c.Mirror.Bucket,
	)
	if c.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set; using the development default")
	}
}

func driverName(cfg db.Config) string {
	d, _ := cfg.Dialect()
	return d
}
