package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strconv"
)

func New() (Config, error) {
	port, err := requireEnvAsInt("SERVER_PORT")
	if err != nil {
		return Config{}, err
	}

	eventsPerPage, err := requireEnvAsInt("EVENTS_PER_PAGE")
	if err != nil {
		return Config{}, err
	}

	broadcastBatchSize, err := requireEnvAsInt("BROADCAST_BATCH_SIZE")
	if err != nil {
		return Config{}, err
	}

	hostname, err := requireEnv("HOSTNAME")
	if err != nil {
		return Config{}, err
	}

	privateKeyFile, err := requireEnv("PRIVATE_KEY_FILE")
	if err != nil {
		return Config{}, err
	}

	accessTokenTtl, err := requireEnvAsInt("ACCESS_TOKEN_TTL_SECONDS")
	if err != nil {
		return Config{}, err
	}

	postgresql, err := newPostgresql()
	if err != nil {
		return Config{}, err
	}

	rabbitmq, err := newRabbitMQ()
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServerPort:         port,
		Hostname:           hostname,
		EventsPerPage:      eventsPerPage,
		BroadcastBatchSize: broadcastBatchSize,
		Authentication: Authentication{
			PrivateKeyFile: privateKeyFile,
			AccessTokenTtl: accessTokenTtl,
		},
		Postgresql: postgresql,
		RabbitMQ:   rabbitmq,
	}, nil
}

type Config struct {
	ServerPort         int
	Hostname           string
	EventsPerPage      int
	BroadcastBatchSize int
	Authentication     Authentication
	Postgresql         Postgresql
	RabbitMQ           RabbitMQ
}

type Authentication struct {
	PrivateKeyFile string
	AccessTokenTtl int
}

// GetPrivateKey reads and parses the PEM encoded RSA key used to sign and
// verify access tokens.
func (a Authentication) GetPrivateKey() (*rsa.PrivateKey, error) {
	bytes, err := os.ReadFile(a.PrivateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file: %v", err)
	}

	block, _ := pem.Decode(bytes)
	if block == nil {
		return nil, errors.New("failed to decode PEM block containing private key")
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %v", err)
	}

	return key, nil
}

func newPostgresql() (Postgresql, error) {
	host, err := requireEnv("DATABASE_HOST")
	if err != nil {
		return Postgresql{}, err
	}

	port, err := requireEnvAsInt("DATABASE_PORT")
	if err != nil {
		return Postgresql{}, err
	}

	username, err := requireEnv("DATABASE_USERNAME")
	if err != nil {
		return Postgresql{}, err
	}

	password, err := requireEnv("DATABASE_PASSWORD")
	if err != nil {
		return Postgresql{}, err
	}

	name, err := requireEnv("DATABASE_NAME")
	if err != nil {
		return Postgresql{}, err
	}

	return Postgresql{
		Host:         host,
		Port:         port,
		Username:     username,
		Password:     password,
		DatabaseName: name,
	}, nil
}

type Postgresql struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
}

func newRabbitMQ() (RabbitMQ, error) {
	host, err := requireEnv("RABBITMQ_HOST")
	if err != nil {
		return RabbitMQ{}, err
	}

	port, err := requireEnvAsInt("RABBITMQ_PORT")
	if err != nil {
		return RabbitMQ{}, err
	}

	username, err := requireEnv("RABBITMQ_USERNAME")
	if err != nil {
		return RabbitMQ{}, err
	}

	password, err := requireEnv("RABBITMQ_PASSWORD")
	if err != nil {
		return RabbitMQ{}, err
	}

	return RabbitMQ{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
	}, nil
}

type RabbitMQ struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (r RabbitMQ) GetURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", r.Username, r.Password, r.Host, r.Port)
}

func requireEnv(key string) (string, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return "", fmt.Errorf("can't find environment variable: %s", key)
	}
	return value, nil
}

func requireEnvAsInt(key string) (int, error) {
	valueStr, err := requireEnv(key)
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("can't parse %s as integer: %v", key, err)
	}
	return value, nil
}
