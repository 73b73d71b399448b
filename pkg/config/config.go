package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"turfslot/pkg/client"
	"turfslot/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	RateLimitPerSecond int
	RateLimitBurst     int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	StoreBackend string

	LockBackend     string
	LockTTL         time.Duration
	LockWaitTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TimeZone           string
	Location           *time.Location
	BookingHorizonDays int
	DefaultSlotPrice   int64

	ProgramOverlapScope  string
	EventDuplicatePolicy string

	KafkaEnabled          bool
	KafkaClaimEventsTopic string
	KafkaSettlementTopic  string
	KafkaSettlementGroup  string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads configuration from the environment. A .env file in the working
// directory, when present, fills variables that are not already set.
func Load(serviceName string) *Config {
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		RateLimitPerSecond: getEnvNum(EnvRateLimitPerSecond, DefaultRateLimitPerSecond),
		RateLimitBurst:     getEnvNum(EnvRateLimitBurst, DefaultRateLimitBurst),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		StoreBackend: strings.ToLower(getEnvStr(EnvStoreBackend, DefaultStoreBackend)),

		LockBackend:     strings.ToLower(getEnvStr(EnvLockBackend, DefaultLockBackend)),
		LockTTL:         getEnvDuration(EnvLockTTL, DefaultLockTTL),
		LockWaitTimeout: getEnvDuration(EnvLockWaitTimeout, DefaultLockWaitTimeout),

		RedisAddr:     getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		TimeZone:           getEnvStr(EnvTimeZone, DefaultTimeZone),
		BookingHorizonDays: getEnvNum(EnvBookingHorizonDays, DefaultBookingHorizonDays),
		DefaultSlotPrice:   int64(getEnvNum(EnvDefaultSlotPrice, DefaultSlotPrice)),

		ProgramOverlapScope:  strings.ToLower(getEnvStr(EnvProgramOverlapScope, DefaultProgramOverlapScope)),
		EventDuplicatePolicy: strings.ToLower(getEnvStr(EnvEventDuplicatePolicy, DefaultEventDuplicatePolicy)),

		KafkaEnabled:          getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),
		KafkaClaimEventsTopic: getEnvStr(EnvKafkaClaimEventsTopic, DefaultKafkaClaimEventsTopic),
		KafkaSettlementTopic:  getEnvStr(EnvKafkaSettlementTopic, DefaultKafkaSettlementTopic),
		KafkaSettlementGroup:  getEnvStr(EnvKafkaSettlementGroup, DefaultKafkaSettlementGroup),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// SetMongo connects the shared Mongo client. It is a no-op for the memory
// store unless the mongo lock backend still needs it.
func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

func (cfg *Config) NeedsMongo() bool {
	return cfg.StoreBackend == StoreMongo || cfg.LockBackend == LockMongo
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	positive := map[string]time.Duration{
		"MongoConnTimeout": cfg.MongoConnTimeout,
		"RequestTimeout":   cfg.RequestTimeout,
		"IdempotencyTTL":   cfg.IdempotencyTTL,
		"ReadTimeout":      cfg.ReadTimeout,
		"WriteTimeout":     cfg.WriteTimeout,
		"IdleTimeout":      cfg.IdleTimeout,
		"ShutdownTimeout":  cfg.ShutdownTimeout,
		"LockTTL":          cfg.LockTTL,
		"LockWaitTimeout":  cfg.LockWaitTimeout,
	}
	for _, name := range []string{"MongoConnTimeout", "RequestTimeout", "IdempotencyTTL", "ReadTimeout", "WriteTimeout", "IdleTimeout", "ShutdownTimeout", "LockTTL", "LockWaitTimeout"} {
		if positive[name] <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", name, positive[name]))
		}
	}

	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.RateLimitPerSecond < 0 {
		errors = append(errors, fmt.Sprintf("RateLimitPerSecond cannot be negative, got: %d", cfg.RateLimitPerSecond))
	}
	if cfg.RateLimitPerSecond > 0 && cfg.RateLimitBurst < 1 {
		errors = append(errors, fmt.Sprintf("RateLimitBurst must be at least 1 when rate limiting is enabled, got: %d", cfg.RateLimitBurst))
	}

	if cfg.StoreBackend != StoreMongo && cfg.StoreBackend != StoreMemory {
		errors = append(errors, fmt.Sprintf("StoreBackend must be one of [%s %s], got: %s", StoreMongo, StoreMemory, cfg.StoreBackend))
	}
	switch cfg.LockBackend {
	case LockMemory, LockMongo, LockRedis:
	default:
		errors = append(errors, fmt.Sprintf("LockBackend must be one of [%s %s %s], got: %s", LockMemory, LockMongo, LockRedis, cfg.LockBackend))
	}
	if cfg.LockBackend == LockRedis && cfg.RedisAddr == "" {
		errors = append(errors, "RedisAddr cannot be empty when LockBackend is redis")
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		errors = append(errors, fmt.Sprintf("TimeZone must be a valid IANA location, got: %s", cfg.TimeZone))
	} else {
		cfg.Location = loc
	}

	if cfg.BookingHorizonDays < 1 {
		errors = append(errors, fmt.Sprintf("BookingHorizonDays must be at least 1, got: %d", cfg.BookingHorizonDays))
	}
	if cfg.DefaultSlotPrice < 0 {
		errors = append(errors, fmt.Sprintf("DefaultSlotPrice cannot be negative, got: %d", cfg.DefaultSlotPrice))
	}

	if cfg.ProgramOverlapScope != ProgramScopeGlobal && cfg.ProgramOverlapScope != ProgramScopeGround {
		errors = append(errors, fmt.Sprintf("ProgramOverlapScope must be one of [%s %s], got: %s", ProgramScopeGlobal, ProgramScopeGround, cfg.ProgramOverlapScope))
	}
	if cfg.EventDuplicatePolicy != EventPolicyExact && cfg.EventDuplicatePolicy != EventPolicyOverlap {
		errors = append(errors, fmt.Sprintf("EventDuplicatePolicy must be one of [%s %s], got: %s", EventPolicyExact, EventPolicyOverlap, cfg.EventDuplicatePolicy))
	}

	if cfg.KafkaEnabled {
		if cfg.KafkaClaimEventsTopic == "" {
			errors = append(errors, "KafkaClaimEventsTopic cannot be empty when Kafka is enabled")
		}
		if cfg.KafkaSettlementTopic == "" || cfg.KafkaSettlementGroup == "" {
			errors = append(errors, "KafkaSettlementTopic and KafkaSettlementGroup cannot be empty when Kafka is enabled")
		}
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"rate_limit_per_second", cfg.RateLimitPerSecond,
		"rate_limit_burst", cfg.RateLimitBurst,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"store_backend", cfg.StoreBackend,
		"lock_backend", cfg.LockBackend,
		"lock_ttl", cfg.LockTTL,
		"lock_wait_timeout", cfg.LockWaitTimeout,
		"redis_addr", cfg.RedisAddr,
		"redis_password_set", cfg.RedisPassword != "",
		"time_zone", cfg.TimeZone,
		"booking_horizon_days", cfg.BookingHorizonDays,
		"default_slot_price", cfg.DefaultSlotPrice,
		"program_overlap_scope", cfg.ProgramOverlapScope,
		"event_duplicate_policy", cfg.EventDuplicatePolicy,
		"kafka_enabled", cfg.KafkaEnabled,
		"kafka_claim_events_topic", cfg.KafkaClaimEventsTopic,
		"kafka_settlement_topic", cfg.KafkaSettlementTopic,
	)

	if cfg.ProgramOverlapScope == ProgramScopeGlobal {
		cfg.Log.Warn("Program overlap check compares slots across all grounds; set PROGRAM_OVERLAP_SCOPE=ground to scope it per ground")
	}
	if cfg.EventDuplicatePolicy == EventPolicyExact {
		cfg.Log.Warn("Event duplicate check only rejects identical ranges; set EVENT_DUPLICATE_POLICY=overlap to reject overlapping events")
	}
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
