package perk

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedService(t *testing.T) (*Service, *MemStore, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zap.InfoLevel)
	store := NewMemStore(MaxPlusOne)
	return NewService(store, zap.New(core), nil), store, logs
}

type failingSeed struct{}

func (failingSeed) Fetch(context.Context) ([]Perk, error) { return nil, errors.New("connection refused") }
func (failingSeed) String() string                        { return "http://seed.invalid/perks.json" }

func TestService_SeedReportsSkippedRecords(t *testing.T) {
	svc, store, logs := newObservedService(t)
	reg := prometheus.NewRegistry()
	svc.Metrics = NewMetrics(reg, store.Len)

	res, err := svc.Seed(context.Background(), FileSeed{Path: filepath.Join("testdata", "seed.json")})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Loaded)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, "Orphan Perk", res.Skipped[0].Name)
	assert.Equal(t, 2, store.Len())

	p, ok, err := svc.FindPerk(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Netflix & Max (Ad-Free)", p.Name)

	assert.Equal(t, 2, logs.FilterMessage("seed perk missing id, skipping").Len())

	summary := logs.FilterMessage("loaded perks").All()
	require.Len(t, summary, 1)
	assert.Equal(t, int64(3), summary[0].ContextMap()["loaded"])
	assert.Equal(t, filepath.Join("testdata", "seed.json"), summary[0].ContextMap()["source"])

	assert.Equal(t, float64(2), testutil.ToFloat64(svc.Metrics.SeedSkipped))
	assert.NoError(t, store.Ping(context.Background()))
}

func TestService_SeedUnavailableStartsEmpty(t *testing.T) {
	svc, store, logs := newObservedService(t)

	_, err := svc.Seed(context.Background(), failingSeed{})
	require.ErrorIs(t, err, ErrSeedUnavailable)

	assert.Equal(t, 0, store.Len())
	assert.NoError(t, store.Ping(context.Background()), "store comes up ready even without seed data")
	assert.Equal(t, 1, logs.FilterMessage("failed to load perks from seed").Len())

	perks, err := svc.ListPerks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, perks)
}

func TestService_RemovePerkLogsAbsent(t *testing.T) {
	svc, _, logs := newObservedService(t)
	ctx := context.Background()

	require.NoError(t, svc.RemovePerk(ctx, 42))

	entries := logs.FilterMessage("perk not found for deletion").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(42), entries[0].ContextMap()["id"])

	p, err := svc.AddPerk(ctx, Perk{Name: "Apple One"})
	require.NoError(t, err)
	require.NoError(t, svc.RemovePerk(ctx, p.ID))
	assert.Equal(t, 1, logs.FilterMessage("perk not found for deletion").Len())

	ok, err := svc.HasPerk(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_ChangePerkAbsence(t *testing.T) {
	svc, _, _ := newObservedService(t)

	_, ok, err := svc.ChangePerk(context.Background(), 1, Perk{Name: "nope"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_Quote(t *testing.T) {
	svc, store, _ := newObservedService(t)
	ctx := context.Background()

	_, err := store.Load(ctx, []Perk{
		{ID: 1, Name: "Disney+ Hulu ESPN+", StandalonePrice: price("14.99"), VerizonPerkPrice: price("10.00")},
		{ID: 2, Name: "Netflix & Max", StandalonePrice: price("16.99"), VerizonPerkPrice: price("10.00")},
		{ID: 3, Name: "Upsell", StandalonePrice: price("5.00"), VerizonPerkPrice: price("10.00")},
	})
	require.NoError(t, err)

	q, err := svc.Quote(ctx, []int64{1, 2, 2, 99})
	require.NoError(t, err)

	assert.Len(t, q.Perks, 2)
	assert.Equal(t, []int64{99}, q.Missing)
	assertPrice(t, "31.98", q.StandaloneTotal)
	assertPrice(t, "20.00", q.PerkTotal)
	assertPrice(t, "11.98", q.MonthlySavings)
	assertPrice(t, "143.76", q.AnnualSavings)

	q, err = svc.Quote(ctx, []int64{3})
	require.NoError(t, err)
	assertPrice(t, "0", q.MonthlySavings)
	assertPrice(t, "0", q.AnnualSavings)
}

func TestPerk_Savings(t *testing.T) {
	p := Perk{StandalonePrice: price("13.99"), VerizonPerkPrice: price("10.00")}
	assertPrice(t, "3.99", p.Savings())
}
