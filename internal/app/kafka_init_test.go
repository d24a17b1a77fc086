package app

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitKafkaProducer_NoBrokersDisablesPublishing(t *testing.T) {
	logger, hook := test.NewNullLogger()

	for _, brokers := range [][]string{nil, {}, {"", "  "}} {
		producer, err := initKafkaProducer(brokers, "orders.order.events", log.NewEntry(logger))
		require.NoError(t, err, "brokers=%q", brokers)
		assert.Nil(t, producer)
	}
	assert.Empty(t, hook.AllEntries())
}

func TestInitKafkaProducer_UnreachableBrokers(t *testing.T) {
	logger, hook := test.NewNullLogger()

	producer, err := initKafkaProducer([]string{" 127.0.0.1:1 "}, "orders.order.events", log.NewEntry(logger))
	require.Error(t, err)
	assert.Nil(t, producer)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, log.WarnLevel, hook.LastEntry().Level)
}

func TestCloseKafka_NilProducer(t *testing.T) {
	assert.NotPanics(t, func() { closeKafka(nil, log.WithField("test", "kafka")) })
}
