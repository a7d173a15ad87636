package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

type Postgres struct {
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT,default=5432"`
	Name     string `env:"DB_NAME"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
}

func (p Postgres) DSN() string {
	return "host=" + p.Host + " port=" + p.Port + " user=" + p.User +
		" password=" + p.Password + " dbname=" + p.Name + " sslmode=disable"
}

type Redis struct {
	Host string `env:"REDIS_HOST"`
	Port string `env:"REDIS_PORT,default=6379"`
}

func (r Redis) Enabled() bool { return r.Host != "" }

func (r Redis) Addr() string { return r.Host + ":" + r.Port }

type Kafka struct {
	Broker     string `env:"KAFKA_BROKER"`
	OrderTopic string `env:"KAFKA_ORDER_TOPIC,default=orders"`
}

func (k Kafka) Enabled() bool { return k.Broker != "" }

type Telegram struct {
	Token  string `env:"TELEGRAM_BOT_TOKEN"`
	APIURL string `env:"TELEGRAM_API_URL,default=https://api.telegram.org"`
}

// Menu configures menu-svc.
type Menu struct {
	Port        string `env:"PORT,default=3001"`
	StoreDriver string `env:"STORE_DRIVER,default=file"`
	DBPath      string `env:"DB_PATH,default=./db.json"`

	Postgres     Postgres
	Redis        Redis
	MenuCacheTTL time.Duration `env:"MENU_CACHE_TTL,default=5m"`
	Kafka        Kafka
	Telegram     Telegram

	AdminToken string        `env:"ADMIN_TOKEN"`
	JWTSecret  string        `env:"JWT_SECRET,required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,default=24h"`

	FrontendURL        string `env:"FRONTEND_URL,default=http://localhost:5173"`
	UploadsDir         string `env:"UPLOADS_DIR,default=./uploads"`
	OrderRatePerMinute int    `env:"ORDER_RATE_PER_MINUTE,default=30"`
	AuthRatePerMinute  int    `env:"AUTH_RATE_PER_MINUTE,default=10"`
	LogLevel           string `env:"LOG_LEVEL,default=info"`

	// TrustedProxies lists the IPs or CIDR ranges whose X-Forwarded-For is believed,
	// separated by semicolons. The api-gateway address belongs here.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

func (c *Menu) Validate() error {
	switch c.StoreDriver {
	case StoreFile, StorePostgres:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreDriver == StorePostgres && c.Postgres.Host == "" {
		return errors.New("config: DB_HOST is required for the postgres store")
	}
	return nil
}

// Notify configures notify-svc.
type Notify struct {
	Port     string `env:"PORT,default=3002"`
	Kafka    Kafka
	Telegram Telegram
	GroupID  string `env:"KAFKA_GROUP_ID,default=notify-svc"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
}

// Gateway configures api-gateway.
type Gateway struct {
	Port        string `env:"PORT,default=8080"`
	MenuSvcURL  string `env:"MENU_SVC_URL,default=http://localhost:3001"`
	FrontendDir string `env:"FRONTEND_DIR,default=./frontend/dist"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
}

// Load fills target from the environment, after merging a .env file from the
// working directory when one exists. Variables already set win over .env.
func Load(target any) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("config: read .env: %w", err)
	}
	if err := envdecode.Decode(target); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("config: %w", err)
	}
	if v, ok := target.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func MustInitPostgres(cfg Postgres, log logrus.FieldLogger) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	if err = db.Ping(); err != nil {
		log.WithError(err).Fatal("Failed to ping database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg Redis, log logrus.FieldLogger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}

	return client
}

func NewKafkaReader(cfg Kafka, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Broker},
		Topic:   cfg.OrderTopic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(cfg Kafka) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Broker),
		Topic:                  cfg.OrderTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}
