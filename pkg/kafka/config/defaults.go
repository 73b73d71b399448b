package kafkaconfig

import "time"

const (
	DefaultKafkaBrokers  = "localhost:9092"
	DefaultKafkaClientID = "turfslot"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1
	DefaultProducerCompression  = "snappy"

	DefaultConsumerStartOffset  = -2
	DefaultConsumerMinBytes     = 1
	DefaultConsumerMaxBytes     = 1 << 20
	DefaultConsumerMaxWait      = 500 * time.Millisecond
	DefaultConsumerMaxRetries   = 3
	DefaultConsumerRetryBackoff = 200 * time.Millisecond

	DefaultDLQSuffix = ".dlq"
)
