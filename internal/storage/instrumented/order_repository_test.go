package instrumented_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/metrics"
	"github.com/vladislavdragonenkov/orders/internal/storage/instrumented"
	"github.com/vladislavdragonenkov/orders/internal/storage/memory"
)

func newInstrumented(t *testing.T) (domain.OrderRepository, *prometheus.Registry, *test.Hook) {
	t.Helper()

	reg := prometheus.NewRegistry()
	logger, hook := test.NewNullLogger()
	repo := instrumented.NewOrderRepository(
		memory.NewOrderRepository(),
		metrics.NewRepositoryMetricsWithRegisterer(reg),
		logger.WithField("test", t.Name()),
	)
	return repo, reg, hook
}

func sampleOrder(id string) domain.Order {
	return domain.NewOrder(id, "customer-1", domain.OrderItem{
		ID: "1", Name: "Product 1", Price: decimal.NewFromInt(10), ProductID: "p-1", Quantity: 2,
	})
}

func TestInstrumented_DelegatesAndCounts(t *testing.T) {
	repo, reg, hook := newInstrumented(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleOrder("1")))
	got, err := repo.Find(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	_, err = repo.Find(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	count, err := testutil.GatherAndCount(reg, "orders_repository_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count, "create/success, find/success, find/not_found, find_all/success")

	assert.Empty(t, hook.AllEntries(), "not found must not be logged as a failure")
}

func TestInstrumented_LogsFailures(t *testing.T) {
	repo, _, hook := newInstrumented(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleOrder("1")))
	err := repo.Create(ctx, sampleOrder("1"))
	require.ErrorIs(t, err, domain.ErrOrderAlreadyExists)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.WarnLevel, entry.Level)
	assert.Equal(t, "create", entry.Data["operation"])
	assert.Equal(t, "1", entry.Data["order_id"])
}

func TestInstrumented_UpdateRecordsItems(t *testing.T) {
	repo, reg, _ := newInstrumented(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleOrder("1")))
	require.NoError(t, repo.Update(ctx, sampleOrder("1")))

	count, err := testutil.GatherAndCount(reg, "orders_repository_items_per_order")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// failingFindRepo отдаёт сбой чтения так же, как ORM-репозиторий: not found с причиной в цепочке.
type failingFindRepo struct {
	domain.OrderRepository
	cause error
}

func (r failingFindRepo) Find(context.Context, string) (domain.Order, error) {
	return domain.Order{}, fmt.Errorf("%w: %w", domain.ErrOrderNotFound, r.cause)
}

func TestInstrumented_FindStoreFailureCountsAsError(t *testing.T) {
	reg := prometheus.NewRegistry()
	logger, hook := test.NewNullLogger()
	repo := instrumented.NewOrderRepository(
		failingFindRepo{OrderRepository: memory.NewOrderRepository(), cause: errors.New("connection refused")},
		metrics.NewRepositoryMetricsWithRegisterer(reg),
		logger.WithField("test", t.Name()),
	)

	_, err := repo.Find(context.Background(), "1")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	expected := `
# HELP orders_repository_operations_total Total number of order repository operations grouped by operation and result
# TYPE orders_repository_operations_total counter
orders_repository_operations_total{operation="find",result="error"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "orders_repository_operations_total"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "find", entry.Data["operation"])
}
