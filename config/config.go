package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"eventguard/deduplication"
	"eventguard/pipeline"
	"eventguard/shared/kafka"
	"eventguard/storage"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileEnv names the optional YAML file layered over the environment
const FileEnv = "EVENTGUARD_CONFIG"

// Config holds every setting the binaries read at startup
type Config struct {
	Port      string `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Redis    RedisConfig    `yaml:"redis"`
	Bloom    BloomSettings  `yaml:"bloom"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	S3       S3Settings     `yaml:"s3"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// RedisConfig locates the redis instance backing the seen filter.
// An empty Addr disables the filter.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// BloomSettings sizes the seen filter
type BloomSettings struct {
	Key        string        `yaml:"key"`
	TTL        time.Duration `yaml:"ttl"`
	Capacity   int           `yaml:"capacity"`
	ErrorRate  float64       `yaml:"error_rate"`
	NonScaling bool          `yaml:"non_scaling"`
}

// KafkaConfig configures the worker. An empty broker list disables it.
type KafkaConfig struct {
	Brokers     []string `yaml:"brokers"`
	Topic       string   `yaml:"topic"`
	GroupID     string   `yaml:"group_id"`
	ReportTopic string   `yaml:"report_topic"`
	// OldestOffset makes a new consumer group start at the beginning of the topic
	OldestOffset bool `yaml:"oldest_offset"`
}

// S3Settings configures report archiving. An empty Bucket disables it.
type S3Settings struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Profile      string `yaml:"profile"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// PipelineConfig tunes batch processing
type PipelineConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	bloom := deduplication.DefaultBloomConfig()
	return Config{
		Port:      "8080",
		LogLevel:  "info",
		LogFormat: "text",
		Bloom: BloomSettings{
			Key:       bloom.Key,
			TTL:       bloom.TTL,
			Capacity:  bloom.Capacity,
			ErrorRate: bloom.ErrorRate,
		},
		Kafka: KafkaConfig{
			Topic:   "eventguard.batches",
			GroupID: "eventguard-worker",
		},
		S3: S3Settings{
			Prefix: "reports",
		},
		Pipeline: PipelineConfig{
			Concurrency: pipeline.DefaultConcurrency,
		},
	}
}

// Load reads .env (if present), then the environment, then the YAML file named by
// EVENTGUARD_CONFIG. Keys present in the file override the environment.
func Load() (Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if path := strings.TrimSpace(os.Getenv(FileEnv)); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := cfg.applyYAML(data); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	return cfg, nil
}

func (c *Config) applyYAML(data []byte) error {
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	str := func(key string, dst *string) {
		if v, ok := get(key); ok {
			*dst = v
		}
	}
	flag := func(key string, dst *bool) error {
		v, ok := get(key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = b
		return nil
	}
	num := func(key string, dst *int) error {
		v, ok := get(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}

	str("PORT", &c.Port)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	if err := num("REDIS_DB", &c.Redis.DB); err != nil {
		return err
	}

	str("BLOOM_KEY", &c.Bloom.Key)
	if err := num("BLOOM_CAPACITY", &c.Bloom.Capacity); err != nil {
		return err
	}
	var ttl int
	if err := num("BLOOM_TTL_SECONDS", &ttl); err != nil {
		return err
	}
	if ttl > 0 {
		c.Bloom.TTL = time.Duration(ttl) * time.Second
	}
	if v, ok := get("BLOOM_ERROR_RATE"); ok {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid BLOOM_ERROR_RATE %q: %w", v, err)
		}
		c.Bloom.ErrorRate = rate
	}
	if err := flag("BLOOM_NONSCALING", &c.Bloom.NonScaling); err != nil {
		return err
	}

	if v, ok := get("KAFKA_BOOTSTRAP_SERVERS"); ok {
		c.Kafka.Brokers = splitList(v)
	}
	str("KAFKA_TOPIC", &c.Kafka.Topic)
	str("KAFKA_GROUP_ID", &c.Kafka.GroupID)
	str("KAFKA_REPORT_TOPIC", &c.Kafka.ReportTopic)
	if err := flag("KAFKA_OFFSET_OLDEST", &c.Kafka.OldestOffset); err != nil {
		return err
	}

	str("S3_BUCKET", &c.S3.Bucket)
	str("S3_PREFIX", &c.S3.Prefix)
	str("S3_REGION", &c.S3.Region)
	str("S3_PROFILE", &c.S3.Profile)
	if v, ok := get("S3_USE_PATH_STYLE"); ok {
		c.S3.UsePathStyle = strings.EqualFold(v, "true")
	}

	return num("PIPELINE_CONCURRENCY", &c.Pipeline.Concurrency)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Addr is the listen address for the HTTP server
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// BloomEnabled reports whether a redis address is configured
func (c Config) BloomEnabled() bool { return c.Redis.Addr != "" }

// S3Enabled reports whether a report bucket is configured
func (c Config) S3Enabled() bool { return c.S3.Bucket != "" }

// KafkaEnabled reports whether brokers are configured
func (c Config) KafkaEnabled() bool { return len(c.Kafka.Brokers) > 0 }

// BloomConfig converts the redis and bloom settings for deduplication.NewRedisBloom
func (c Config) BloomConfig() deduplication.BloomConfig {
	return deduplication.BloomConfig{
		Addr:       c.Redis.Addr,
		Password:   c.Redis.Password,
		DB:         c.Redis.DB,
		Key:        c.Bloom.Key,
		TTL:        c.Bloom.TTL,
		Capacity:   c.Bloom.Capacity,
		ErrorRate:  c.Bloom.ErrorRate,
		NonScaling: c.Bloom.NonScaling,
	}
}

// S3Config converts the s3 settings for storage.NewS3
func (c Config) S3Config() storage.S3Config {
	return storage.S3Config{
		Bucket:       c.S3.Bucket,
		Region:       c.S3.Region,
		Profile:      c.S3.Profile,
		UsePathStyle: c.S3.UsePathStyle,
	}
}

// ConsumerConfig builds the kafka consumer settings around handler
func (c Config) ConsumerConfig(handler kafka.MessageHandler) kafka.ConsumerConfig {
	return kafka.ConsumerConfig{
		Brokers:      c.Kafka.Brokers,
		Topic:        c.Kafka.Topic,
		GroupID:      c.Kafka.GroupID,
		Handler:      handler,
		OldestOffset: c.Kafka.OldestOffset,
	}
}
