package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "turfslot"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultRateLimitPerSecond = 50
	DefaultRateLimitBurst     = 100

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultStoreBackend = StoreMongo

	DefaultLockBackend     = LockMemory
	DefaultLockTTL         = 10 * time.Second
	DefaultLockWaitTimeout = 3 * time.Second

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultTimeZone           = "UTC"
	DefaultBookingHorizonDays = 90
	DefaultSlotPrice          = 800

	DefaultProgramOverlapScope  = ProgramScopeGlobal
	DefaultEventDuplicatePolicy = EventPolicyExact

	DefaultKafkaEnabled          = false
	DefaultKafkaClaimEventsTopic = "ground-claims"
	DefaultKafkaSettlementTopic  = "claim-settlements"
	DefaultKafkaSettlementGroup  = "allocation-settlement"

	DefaultPaginationLimit = 100
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	LockMemory = "memory"
	LockMongo  = "mongo"
	LockRedis  = "redis"

	// ProgramScopeGlobal compares a program's slots against every other
	// active program on every ground. ProgramScopeGround limits the check to
	// the program's own ground and honours weekday overlap.
	ProgramScopeGlobal = "global"
	ProgramScopeGround = "ground"

	// EventPolicyExact rejects only an identical (grounds, start, end) tuple.
	// EventPolicyOverlap rejects any overlapping active claim.
	EventPolicyExact   = "exact"
	EventPolicyOverlap = "overlap"
)
