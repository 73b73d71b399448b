package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvRateLimitPerSecond = "RATE_LIMIT_PER_SECOND"
	EnvRateLimitBurst     = "RATE_LIMIT_BURST"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvStoreBackend = "STORE_BACKEND"

	EnvLockBackend     = "LOCK_BACKEND"
	EnvLockTTL         = "LOCK_TTL"
	EnvLockWaitTimeout = "LOCK_WAIT_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvTimeZone           = "TIME_ZONE"
	EnvBookingHorizonDays = "BOOKING_HORIZON_DAYS"
	EnvDefaultSlotPrice   = "DEFAULT_SLOT_PRICE"

	EnvProgramOverlapScope  = "PROGRAM_OVERLAP_SCOPE"
	EnvEventDuplicatePolicy = "EVENT_DUPLICATE_POLICY"

	EnvKafkaEnabled          = "KAFKA_ENABLED"
	EnvKafkaClaimEventsTopic = "KAFKA_CLAIM_EVENTS_TOPIC"
	EnvKafkaSettlementTopic  = "KAFKA_SETTLEMENT_TOPIC"
	EnvKafkaSettlementGroup  = "KAFKA_SETTLEMENT_GROUP"
)
