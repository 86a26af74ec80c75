package config

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

var ErrMissingWebhookSecret = errors.New("WEBHOOK_SECRET is not set")

type Settings struct {
	WebhookSecret    string `mapstructure:"WEBHOOK_SECRET"`
	HTTPAddr         string `mapstructure:"HTTP_ADDR"`
	StatsHTTPAddr    string `mapstructure:"STATS_HTTP_ADDR"`
	GatewayHTTPAddr  string `mapstructure:"GATEWAY_HTTP_ADDR"`
	OrderSvcURL      string `mapstructure:"ORDER_SVC_URL"`
	StatsSvcURL      string `mapstructure:"STATS_SVC_URL"`
	StaffChatID      int64  `mapstructure:"STAFF_CHAT_ID"`
	StoreBackend     string `mapstructure:"STORE_BACKEND"`
	OrdersFile       string `mapstructure:"ORDERS_FILE"`
	MenuFile         string `mapstructure:"MENU_FILE"`
	PaymentQRFile    string `mapstructure:"PAYMENT_QR_FILE"`
	PayNowPayload    string `mapstructure:"PAYNOW_PAYLOAD"`
	QRCacheDir       string `mapstructure:"QR_CACHE_DIR"`
	KafkaBroker      string `mapstructure:"KAFKA_BROKER"`
	OrderEventsTopic string `mapstructure:"ORDER_EVENTS_TOPIC"`
	OutboundTopic    string `mapstructure:"OUTBOUND_TOPIC"`
	PendingLimit     int    `mapstructure:"PENDING_LIMIT"`
	RecentLimit      int    `mapstructure:"RECENT_LIMIT"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBName     string `mapstructure:"DB_NAME"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`

	RedisHost string `mapstructure:"REDIS_HOST"`
	RedisPort string `mapstructure:"REDIS_PORT"`
}

var defaults = map[string]interface{}{
	"WEBHOOK_SECRET":     "",
	"HTTP_ADDR":          ":8081",
	"STATS_HTTP_ADDR":    ":8083",
	"GATEWAY_HTTP_ADDR":  ":8080",
	"ORDER_SVC_URL":      "http://localhost:8081",
	"STATS_SVC_URL":      "http://localhost:8083",
	"STAFF_CHAT_ID":      0,
	"STORE_BACKEND":      "csv",
	"ORDERS_FILE":        "orders/orders.csv",
	"MENU_FILE":          "",
	"PAYMENT_QR_FILE":    "assets/paynow_qr.pdf",
	"PAYNOW_PAYLOAD":     "",
	"QR_CACHE_DIR":       "assets/generated",
	"KAFKA_BROKER":       "",
	"ORDER_EVENTS_TOPIC": "orders",
	"OUTBOUND_TOPIC":     "chat-outbound",
	"PENDING_LIMIT":      10,
	"RECENT_LIMIT":       10,
	"DB_HOST":            "localhost",
	"DB_PORT":            "5432",
	"DB_NAME":            "homecafe",
	"DB_USER":            "postgres",
	"DB_PASSWORD":        "",
	"REDIS_HOST":         "localhost",
	"REDIS_PORT":         "6379",
}

// Load reads settings from defaults, an optional .env or config.yaml in the
// working directory, and the environment, in increasing priority.
func Load() (*Settings, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}
	v.AutomaticEnv()

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Settings) Validate() error {
	if s.WebhookSecret == "" {
		return ErrMissingWebhookSecret
	}
	return nil
}

func MustInitPostgres(s *Settings) *sql.DB {
	connStr := "host=" + s.DBHost + " port=" + s.DBPort + " user=" + s.DBUser +
		" password=" + s.DBPassword + " dbname=" + s.DBName + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(s *Settings) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: s.RedisHost + ":" + s.RedisPort,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(s *Settings, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{s.KafkaBroker},
		Topic:   topic,
		GroupID: groupID,
	})
}

// NewKafkaWriter partitions by message key, so everything published under
// one key (a chat, an order) is consumed in the order it was written.
func NewKafkaWriter(s *Settings, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(s.KafkaBroker),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
}
