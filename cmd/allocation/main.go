package main

import (
	"turfslot/internal/allocation"
	"turfslot/internal/claims"
	"turfslot/internal/memstore"
	"turfslot/internal/settlement"
	"turfslot/pkg/app"
	"turfslot/pkg/config"
	"turfslot/pkg/contracts"
	"turfslot/pkg/kafka"
	kafkaconfig "turfslot/pkg/kafka/config"
	kafkamiddleware "turfslot/pkg/kafka/middleware"
	"turfslot/pkg/lock"
	"turfslot/pkg/middleware"
)

const ServiceName = "allocation"

func main() {
	cfg := config.Load(ServiceName)
	defer cfg.GracefulShutdown()

	if cfg.NeedsMongo() {
		cfg.SetMongo()
	}
	if cfg.LockBackend == config.LockRedis {
		cfg.SetRedis()
	}

	cfg.Log.Info("Starting Allocation service")

	stores, checks := initStores(cfg)
	locker := initLocker(cfg)
	horizon := claims.NewHorizon(cfg.Location, cfg.BookingHorizonDays)

	var (
		publisher claims.Publisher
		kafkaCfg  *kafkaconfig.Config
	)
	if cfg.KafkaEnabled {
		var producer *kafka.Producer
		kafkaCfg, producer = initKafka(cfg)
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Warn("Kafka producer close failed", "error", err)
			}
		}()
		publisher = claims.NewKafkaPublisher(producer, ServiceName)
	}

	engine := allocation.New(cfg, stores, locker, publisher, horizon)

	serverApp := app.NewApplication(cfg)
	if kafkaCfg != nil {
		serverApp.AddWorker(initSettlement(cfg, kafkaCfg, engine))
	}

	var idempotency middleware.IdempotencyStore
	if cfg.Client.Redis != nil {
		idempotency = middleware.NewRedisIdempotencyStore(cfg.Client.Redis, cfg.IdempotencyTTL, cfg.Log)
		checks = append(checks, app.RedisCheck(cfg.Client.Redis))
	}

	serverApp.SetApp(idempotency, checks, engine.Handlers()...)
	serverApp.Run()
}

func initStores(cfg *config.Config) (allocation.Stores, []contracts.HealthCheck) {
	if cfg.StoreBackend == config.StoreMemory {
		store := memstore.New()
		cfg.Log.Warn("Using in-memory store; claims are lost on restart")
		return allocation.MemoryStores(store), []contracts.HealthCheck{store}
	}

	cfg.Log.Info("Using Mongo store", "database", cfg.MongoDatabaseName)
	return allocation.MongoStores(cfg), []contracts.HealthCheck{app.MongoCheck(cfg.Client.Mongo)}
}

func initLocker(cfg *config.Config) lock.Locker {
	switch cfg.LockBackend {
	case config.LockRedis:
		return lock.NewRedisLocker(cfg.Client.Redis, cfg.LockTTL, cfg.LockWaitTimeout, cfg.Log)
	case config.LockMongo:
		db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
		return lock.NewMongoLocker(db, cfg.LockTTL, cfg.LockWaitTimeout, cfg.Log)
	default:
		if cfg.StoreBackend == config.StoreMongo {
			cfg.Log.Warn("Memory locks only serialize this replica; use LOCK_BACKEND=mongo or redis when running more than one")
		}
		return lock.NewMemoryLocker(cfg.LockWaitTimeout)
	}
}

func initKafka(cfg *config.Config) (*kafkaconfig.Config, *kafka.Producer) {
	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaClaimEventsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamiddleware.Logging(cfg.Log, "publish"))
	return kafkaCfg, producer
}

func initSettlement(cfg *config.Config, kafkaCfg *kafkaconfig.Config, engine *allocation.Engine) contracts.Worker {
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.KafkaSettlementTopic,
		cfg.KafkaSettlementGroup,
		engine.Settlement().Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create settlement consumer", "error", err)
	}
	consumer.Use(kafkamiddleware.Logging(cfg.Log, "consume"))

	cfg.Log.Info("Settlement consumer initialized",
		"topic", cfg.KafkaSettlementTopic,
		"group", cfg.KafkaSettlementGroup,
	)
	return settlement.NewWorker(consumer)
}
