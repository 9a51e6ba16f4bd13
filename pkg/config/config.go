package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StoreDynamoDB = "dynamodb"
	StoreMongoDB  = "mongodb"
	StoreMemory   = "memory"
)

type Config struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"dynamodb"`

	AWSRegion         string `envconfig:"AWS_REGION" default:"ap-northeast-2"`
	DynamoDBEndpoint  string `envconfig:"DYNAMODB_ENDPOINT" default:""` // DynamoDB Local endpoint
	ProductTableName  string `envconfig:"PRODUCT_TABLE_NAME" default:"products"`
	CartTableName     string `envconfig:"CART_TABLE_NAME" default:"carts"`
	CheckoutTableName string `envconfig:"CHECKOUT_TABLE_NAME" default:"checkouts"`
	OrderTableName    string `envconfig:"ORDER_TABLE_NAME" default:"orders"`
	UserTableName     string `envconfig:"USER_TABLE_NAME" default:"users"`

	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"storefront"`

	KafkaBrokers           string `envconfig:"KAFKA_BROKERS" default:""`
	KafkaOrderTopic        string `envconfig:"KAFKA_ORDER_TOPIC" default:"order-events"`
	KafkaCompensationTopic string `envconfig:"KAFKA_COMPENSATION_TOPIC" default:"compensation-events"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"72h"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:""`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDynamoDB, StoreMongoDB, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	return nil
}

// Brokers splits KAFKA_BROKERS; an empty result disables event publishing.
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
