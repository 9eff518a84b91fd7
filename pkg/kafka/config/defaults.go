package kafka_config

import "time"

const (
	DefaultKafkaBrokers = "localhost:9092"

	DefaultReservationsTopic = "maitred.reservations"
	DefaultDLQTopic          = "maitred.reservations.dlq"
	DefaultConsumerGroupID   = "maitred-notifier"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1

	DefaultConsumerStartOffset    int64 = -1 // newest
	DefaultConsumerMinBytes             = 1
	DefaultConsumerMaxBytes             = 10 * 1024 * 1024 // 10MB
	DefaultConsumerMaxWait              = 500 * time.Millisecond
	DefaultConsumerCommitInterval       = 1 * time.Second
	DefaultConsumerMaxRetries           = 3
)
