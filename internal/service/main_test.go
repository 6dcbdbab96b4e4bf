package service

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/autobitstack/orchestrator-svc/internal/broker"
	"github.com/autobitstack/orchestrator-svc/internal/data"
	"github.com/autobitstack/orchestrator-svc/internal/ledger"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

type fakeReader struct {
	mu          sync.Mutex
	dcaOrders   map[string]ledger.DCAOrder
	limitOrders map[string]ledger.LimitOrder
	readErr     error
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		dcaOrders:   make(map[string]ledger.DCAOrder),
		limitOrders: make(map[string]ledger.LimitOrder),
	}
}

func (f *fakeReader) DCAOrderByID(_ context.Context, id string) (ledger.DCAOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return ledger.DCAOrder{}, f.readErr
	}
	ord, ok := f.dcaOrders[id]
	if !ok {
		return ledger.DCAOrder{}, errors.New("no such dca order")
	}
	return ord, nil
}

func (f *fakeReader) LimitOrderByID(_ context.Context, id string) (ledger.LimitOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return ledger.LimitOrder{}, f.readErr
	}
	ord, ok := f.limitOrders[id]
	if !ok {
		return ledger.LimitOrder{}, errors.New("no such limit order")
	}
	return ord, nil
}

// consumeDCAOccurrence mirrors the contract's own state transition on a
// fulfilled occurrence.
func (f *fakeReader) consumeDCAOccurrence(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ord := f.dcaOrders[id]
	if ord.TotalFrequency > 0 {
		ord.TotalFrequency--
	}
	if ord.TotalFrequency == 0 {
		ord.IsActive = false
	}
	f.dcaOrders[id] = ord
}

type fulfillCall struct {
	orderID        string
	depositAddress string
}

type fakeFulfiller struct {
	mu         sync.Mutex
	dcaCalls   []fulfillCall
	limitCalls []fulfillCall
	err        error
	// onFulfill lets a test mirror the contract's own state transition
	onFulfill func(orderID string)
}

func (f *fakeFulfiller) FulfillDCAOccurrence(_ context.Context, id, depositAddress string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.dcaCalls = append(f.dcaCalls, fulfillCall{id, depositAddress})
	if f.onFulfill != nil {
		f.onFulfill(id)
	}
	return nil
}

func (f *fakeFulfiller) FulfillLimitOrder(_ context.Context, id, depositAddress string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.limitCalls = append(f.limitCalls, fulfillCall{id, depositAddress})
	if f.onFulfill != nil {
		f.onFulfill(id)
	}
	return nil
}

func (f *fakeFulfiller) dcaCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dcaCalls)
}

type fakeBroker struct {
	mu         sync.Mutex
	price      *big.Int
	priceErr   error
	priceCalls int

	channels   int
	channelErr error
	requests   []broker.DepositRequest
}

func (f *fakeBroker) RequestDepositChannel(_ context.Context, req broker.DepositRequest) (broker.DepositChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.channelErr != nil {
		return broker.DepositChannel{}, f.channelErr
	}
	f.channels++
	f.requests = append(f.requests, req)
	return broker.DepositChannel{
		DepositAddress: fmt.Sprintf("bc1qdeposit%d", f.channels),
		ChannelID:      fmt.Sprintf("channel-%d", f.channels),
	}, nil
}

func (f *fakeBroker) BitcoinPrice(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceCalls++
	if f.priceErr != nil {
		return nil, f.priceErr
	}
	return new(big.Int).Set(f.price), nil
}

type fakeStatuses struct {
	mu      sync.Mutex
	records []data.StatusRecord
}

func (f *fakeStatuses) Insert(r data.StatusRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, r)
	return nil
}

func (f *fakeStatuses) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func (f *fakeStatuses) all() []data.StatusRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]data.StatusRecord(nil), f.records...)
}

type fakeHubEntries struct {
	entries []data.HubEntry
}

func (f *fakeHubEntries) Insert(e data.HubEntry) error {
	for _, existing := range f.entries {
		if existing.OrderID == e.OrderID && existing.Product == e.Product {
			return nil
		}
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeHubEntries) JobID(orderID string) (*string, error) {
	for _, e := range f.entries {
		if e.OrderID == orderID {
			return &e.JobID, nil
		}
	}
	return nil, nil
}

type scheduledJob struct {
	queue       string
	key         string
	interval    time.Duration
	delay       time.Duration
	occurrences *int64
}

// fakeScheduler mimics the durable queue's keyed idempotency.
type fakeScheduler struct {
	jobs map[string]scheduledJob
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{jobs: make(map[string]scheduledJob)}
}

func (f *fakeScheduler) ScheduleBounded(queue, key string, interval, delay time.Duration, occurrences int64) error {
	k := queue + "/" + key
	if _, ok := f.jobs[k]; ok {
		return nil
	}
	f.jobs[k] = scheduledJob{queue, key, interval, delay, &occurrences}
	return nil
}

func (f *fakeScheduler) ScheduleUnbounded(queue, key string, interval time.Duration) error {
	k := queue + "/" + key
	if _, ok := f.jobs[k]; ok {
		return nil
	}
	f.jobs[k] = scheduledJob{queue: queue, key: key, interval: interval}
	return nil
}

func (f *fakeScheduler) CancelSchedule(queue, key string, interval time.Duration, occurrences *int64) error {
	k := queue + "/" + key
	job, ok := f.jobs[k]
	if !ok || job.interval != interval {
		return nil
	}
	if (job.occurrences == nil) != (occurrences == nil) {
		return nil
	}
	if occurrences != nil && *job.occurrences != *occurrences {
		return nil
	}
	delete(f.jobs, k)
	return nil
}
