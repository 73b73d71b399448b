package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turfslot/pkg/client"
	"turfslot/pkg/logger"
)

func validConfig() *Config {
	return &Config{
		MongoURI:             DefaultMongoURI,
		MongoDatabaseName:    DefaultMongoDatabaseName,
		MongoConnTimeout:     DefaultMongoConnTimeout,
		Port:                 DefaultPort,
		RequestTimeout:       DefaultRequestTimeout,
		IdempotencyTTL:       DefaultIdempotencyTTL,
		MaxRequestSize:       DefaultMaxRequestSize,
		ReadTimeout:          DefaultReadTimeout,
		WriteTimeout:         DefaultWriteTimeout,
		IdleTimeout:          DefaultIdleTimeout,
		ShutdownTimeout:      DefaultShutdownTimeout,
		StoreBackend:         DefaultStoreBackend,
		LockBackend:          DefaultLockBackend,
		LockTTL:              DefaultLockTTL,
		LockWaitTimeout:      DefaultLockWaitTimeout,
		RedisAddr:            DefaultRedisAddr,
		TimeZone:             DefaultTimeZone,
		BookingHorizonDays:   DefaultBookingHorizonDays,
		DefaultSlotPrice:     DefaultSlotPrice,
		ProgramOverlapScope:  DefaultProgramOverlapScope,
		EventDuplicatePolicy: DefaultEventDuplicatePolicy,
		Log:                  logger.Discard(),
		Client:               client.NewClient(),
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load("test")

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, StoreMongo, cfg.StoreBackend)
	assert.Equal(t, LockMemory, cfg.LockBackend)
	assert.Equal(t, ProgramScopeGlobal, cfg.ProgramOverlapScope)
	assert.Equal(t, EventPolicyExact, cfg.EventDuplicatePolicy)
	assert.Equal(t, 90, cfg.BookingHorizonDays)
	assert.Equal(t, int64(800), cfg.DefaultSlotPrice)
	assert.False(t, cfg.KafkaEnabled)
	require.NotNil(t, cfg.Location)
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv(EnvStoreBackend, "Memory")
	t.Setenv(EnvLockBackend, "REDIS")
	t.Setenv(EnvLockTTL, "5s")
	t.Setenv(EnvTimeZone, "Asia/Kolkata")
	t.Setenv(EnvBookingHorizonDays, "30")
	t.Setenv(EnvProgramOverlapScope, "ground")
	t.Setenv(EnvEventDuplicatePolicy, "overlap")
	t.Setenv(EnvKafkaEnabled, "true")

	cfg := Load("test")

	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, LockRedis, cfg.LockBackend)
	assert.Equal(t, 5*time.Second, cfg.LockTTL)
	assert.Equal(t, "Asia/Kolkata", cfg.Location.String())
	assert.Equal(t, 30, cfg.BookingHorizonDays)
	assert.Equal(t, ProgramScopeGround, cfg.ProgramOverlapScope)
	assert.Equal(t, EventPolicyOverlap, cfg.EventDuplicatePolicy)
	assert.True(t, cfg.KafkaEnabled)
	assert.False(t, cfg.NeedsMongo())
}

func TestLoad_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv(EnvBookingHorizonDays, "soon")
	t.Setenv(EnvLockWaitTimeout, "forever")

	cfg := Load("test")

	assert.Equal(t, DefaultBookingHorizonDays, cfg.BookingHorizonDays)
	assert.Equal(t, DefaultLockWaitTimeout, cfg.LockWaitTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = "0" }, wantErr: "Port"},
		{name: "bad mongo uri", mutate: func(c *Config) { c.MongoURI = "postgres://db" }, wantErr: "MongoURI"},
		{name: "zero lock ttl", mutate: func(c *Config) { c.LockTTL = 0 }, wantErr: "LockTTL must be positive"},
		{name: "negative rate limit", mutate: func(c *Config) { c.RateLimitPerSecond = -1 }, wantErr: "RateLimitPerSecond"},
		{name: "rate limit without burst", mutate: func(c *Config) {
			c.RateLimitPerSecond = 10
			c.RateLimitBurst = 0
		}, wantErr: "RateLimitBurst"},
		{name: "unknown store", mutate: func(c *Config) { c.StoreBackend = "sqlite" }, wantErr: "StoreBackend"},
		{name: "unknown lock", mutate: func(c *Config) { c.LockBackend = "etcd" }, wantErr: "LockBackend"},
		{name: "redis lock without addr", mutate: func(c *Config) {
			c.LockBackend = LockRedis
			c.RedisAddr = ""
		}, wantErr: "RedisAddr"},
		{name: "bad time zone", mutate: func(c *Config) { c.TimeZone = "Mars/Olympus" }, wantErr: "TimeZone"},
		{name: "no horizon", mutate: func(c *Config) { c.BookingHorizonDays = 0 }, wantErr: "BookingHorizonDays"},
		{name: "negative price", mutate: func(c *Config) { c.DefaultSlotPrice = -1 }, wantErr: "DefaultSlotPrice"},
		{name: "unknown scope", mutate: func(c *Config) { c.ProgramOverlapScope = "venue" }, wantErr: "ProgramOverlapScope"},
		{name: "unknown policy", mutate: func(c *Config) { c.EventDuplicatePolicy = "fuzzy" }, wantErr: "EventDuplicatePolicy"},
		{name: "kafka without topic", mutate: func(c *Config) {
			c.KafkaEnabled = true
			c.KafkaClaimEventsTopic = ""
			c.KafkaSettlementTopic = "s"
			c.KafkaSettlementGroup = "g"
		}, wantErr: "KafkaClaimEventsTopic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, cfg.Location)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.BookingHorizonDays = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1. Port")
	assert.Contains(t, err.Error(), "2. BookingHorizonDays")
}

func TestNeedsMongo(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.NeedsMongo())

	cfg.StoreBackend = StoreMemory
	assert.False(t, cfg.NeedsMongo())

	cfg.LockBackend = LockMongo
	assert.True(t, cfg.NeedsMongo())
}

func TestRedactMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://***:***@db:27017", redactMongoURI("mongodb://user:secret@db:27017"))
	assert.Equal(t, "mongodb://db:27017", redactMongoURI("mongodb://db:27017"))
}

func TestNormalizePagination(t *testing.T) {
	assert.Equal(t, 10, NormalizePaginationLimit(0))
	assert.Equal(t, DefaultPaginationLimit, NormalizePaginationLimit(1000))
	assert.Equal(t, 25, NormalizePaginationLimit(25))
	assert.Equal(t, int64(0), NormalizeOffset(-5))
}
