package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Report        ReportConfig
	Kafka         KafkaConfig
	Elasticsearch ElasticsearchConfig
	LogLevel      string
}

type ServerConfig struct {
	Port string
}

type ReportConfig struct {
	Files      []string // NDJSON log files reloaded each cycle
	DateFilter string   // optional YYYY-MM-DD filter applied on every load
	Schedule   string
}

type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	RecordTopic   string
	ConsumerGroup string
	BatchSize     int
	MaxBatchWait  time.Duration
	MaxBuffered   int // ingest buffer cap; oldest records are dropped first
}

type ElasticsearchConfig struct {
	Enabled       bool
	Addresses     []string
	RecordIndex   string
	BulkWorkers   int
	FlushBytes    int
	FlushInterval time.Duration
}

func NewConfig() (*Config, error) {
	// Configure Viper to read .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Enable automatic environment variable loading
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REPORT_FILES", "")
	viper.SetDefault("REPORT_DATE_FILTER", "")
	viper.SetDefault("REPORT_SCHEDULE", "*/300 * * * * *") // Every 300 seconds
	viper.SetDefault("KAFKA_ENABLED", false)
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_RECORD_TOPIC", "log_records")
	viper.SetDefault("KAFKA_CONSUMER_GROUP", "logreport_group")
	viper.SetDefault("KAFKA_BATCH_SIZE", 100)
	viper.SetDefault("KAFKA_MAX_BATCH_WAIT", "5s")
	viper.SetDefault("KAFKA_MAX_BUFFERED", 10000)
	viper.SetDefault("ELASTICSEARCH_ENABLED", false)
	viper.SetDefault("ELASTICSEARCH_ADDRESSES", "http://localhost:9200")
	viper.SetDefault("ELASTICSEARCH_RECORD_INDEX", "logrecords")
	viper.SetDefault("ELASTICSEARCH_BULK_WORKERS", 2)
	viper.SetDefault("ELASTICSEARCH_FLUSH_BYTES", 1048576) // 1MB
	viper.SetDefault("ELASTICSEARCH_FLUSH_INTERVAL", "5s")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config
	config.Server.Port = viper.GetString("SERVER_PORT")

	// --- Report ---
	reportFiles := viper.GetString("REPORT_FILES")
	if reportFiles != "" {
		config.Report.Files = strings.Split(reportFiles, ",")
	}
	config.Report.DateFilter = viper.GetString("REPORT_DATE_FILTER")
	config.Report.Schedule = viper.GetString("REPORT_SCHEDULE")

	// --- Kafka ---
	config.Kafka.Enabled = viper.GetBool("KAFKA_ENABLED")
	kafkaBrokers := viper.GetString("KAFKA_BROKERS")
	config.Kafka.Brokers = strings.Split(kafkaBrokers, ",")
	config.Kafka.RecordTopic = viper.GetString("KAFKA_RECORD_TOPIC")
	config.Kafka.ConsumerGroup = viper.GetString("KAFKA_CONSUMER_GROUP")
	config.Kafka.BatchSize = viper.GetInt("KAFKA_BATCH_SIZE")
	config.Kafka.MaxBatchWait = viper.GetDuration("KAFKA_MAX_BATCH_WAIT")
	config.Kafka.MaxBuffered = viper.GetInt("KAFKA_MAX_BUFFERED")

	// --- Elasticsearch ---
	config.Elasticsearch.Enabled = viper.GetBool("ELASTICSEARCH_ENABLED")
	esAddresses := viper.GetString("ELASTICSEARCH_ADDRESSES")
	config.Elasticsearch.Addresses = strings.Split(esAddresses, ",")
	config.Elasticsearch.RecordIndex = viper.GetString("ELASTICSEARCH_RECORD_INDEX")
	config.Elasticsearch.BulkWorkers = viper.GetInt("ELASTICSEARCH_BULK_WORKERS")
	config.Elasticsearch.FlushBytes = viper.GetInt("ELASTICSEARCH_FLUSH_BYTES")
	config.Elasticsearch.FlushInterval = viper.GetDuration("ELASTICSEARCH_FLUSH_INTERVAL")

	config.LogLevel = viper.GetString("LOG_LEVEL")

	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil
}
