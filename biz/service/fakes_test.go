package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"dogker/lintang/monitor-billing-service/biz/domain"
)

var errBoom = errors.New("boom")

// fakeStream is an in-memory stand-in for the Redis Streams adapter. Appends
// keep insertion order per key, the only ordering the real store guarantees.
type fakeStream struct {
	series     map[string][]domain.ContainerSample
	appendErr  map[string]error
	rangeErr   map[string]error
	deleteErr  map[string]error
	scanErr    error
	appends    int
	deleted    []string
	nextEntry  int
	rangeCalls []string
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		series:    map[string][]domain.ContainerSample{},
		appendErr: map[string]error{},
		rangeErr:  map[string]error{},
		deleteErr: map[string]error{},
	}
}

func (f *fakeStream) Append(ctx context.Context, key string, s *domain.ContainerSample) (string, error) {
	if err := f.appendErr[key]; err != nil {
		return "", err
	}
	f.series[key] = append(f.series[key], *s)
	f.appends++
	f.nextEntry++
	return fmt.Sprintf("%d-0", f.nextEntry), nil
}

func (f *fakeStream) ScanKeys(ctx context.Context, pattern string, cursor uint64, count int64) (uint64, []string, error) {
	if f.scanErr != nil {
		return 0, nil, f.scanErr
	}
	var keys []string
	for k := range f.series {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return 0, keys, nil
}

func (f *fakeStream) Range(ctx context.Context, key string) ([]domain.ContainerSample, error) {
	f.rangeCalls = append(f.rangeCalls, key)
	if err := f.rangeErr[key]; err != nil {
		return nil, err
	}
	return f.series[key], nil
}

func (f *fakeStream) Delete(ctx context.Context, key string) error {
	if err := f.deleteErr[key]; err != nil {
		return err
	}
	delete(f.series, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeUsageAPI struct {
	reports []domain.ContainerUsageReport
	err     error
}

func (f *fakeUsageAPI) GetAllContainers(ctx context.Context) ([]domain.ContainerUsageReport, error) {
	return f.reports, f.err
}

type fakeContainerRepo struct {
	owners map[string]string // container name -> user id
}

func (f *fakeContainerRepo) GetByName(ctx context.Context, name string) (*domain.Container, error) {
	userID, ok := f.owners[name]
	if !ok {
		return nil, domain.WrapErrorf(errBoom, domain.ErrNotFound, "container with name: "+name+" not in database")
	}
	return &domain.Container{ID: "ctr-" + name, UserID: userID, Name: name}, nil
}

type fakeMetricsRepo struct {
	records    []domain.DailyMetricRecord
	insertErr  error
	aggregates []domain.MonthlyAggregate
	sumErr     error
	sumFrom    time.Time
	sumTo      time.Time
}

func (f *fakeMetricsRepo) InsertDailyMetric(ctx context.Context, m *domain.DailyMetricRecord) (*domain.DailyMetricRecord, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	m.ID = fmt.Sprintf("rec-%d", len(f.records)+1)
	f.records = append(f.records, *m)
	return m, nil
}

func (f *fakeMetricsRepo) SumUserMetricsInRange(ctx context.Context, from time.Time, to time.Time) ([]domain.MonthlyAggregate, error) {
	f.sumFrom, f.sumTo = from, to
	return f.aggregates, f.sumErr
}

type fakeInvoiceRepo struct {
	inserted   []domain.Invoice
	insertErr  error
	existing   map[string]bool // userID -> already invoiced this period
	existsErr  error
	out        []domain.Invoice
	outErr     error
	statusLog  []string
	links      map[string]string
	updateErr  error
	userInv    []domain.Invoice
	userInvErr error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{existing: map[string]bool{}, links: map[string]string{}}
}

func (f *fakeInvoiceRepo) Insert(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	inv.ID = fmt.Sprintf("inv-%d", len(f.inserted)+1)
	f.inserted = append(f.inserted, *inv)
	return inv, nil
}

func (f *fakeInvoiceRepo) ExistsForPeriod(ctx context.Context, userID string, period time.Time) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existing[userID], nil
}

func (f *fakeInvoiceRepo) GetOutstanding(ctx context.Context) ([]domain.Invoice, error) {
	return f.out, f.outErr
}

func (f *fakeInvoiceRepo) GetUserInvoices(ctx context.Context, userID string) ([]domain.Invoice, error) {
	return f.userInv, f.userInvErr
}

func (f *fakeInvoiceRepo) UpdateStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, paymentLink string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statusLog = append(f.statusLog, invoiceID+":"+string(status))
	f.links[invoiceID] = paymentLink
	return nil
}

type fakePublisher struct {
	metrics    []domain.UserMetricsMessage
	suspended  []domain.UserSuspendedMessage
	metricsErr error
	suspendErr error
}

func (f *fakePublisher) PublishUserMetrics(ctx context.Context, msg domain.UserMetricsMessage) error {
	if f.metricsErr != nil {
		return f.metricsErr
	}
	f.metrics = append(f.metrics, msg)
	return nil
}

func (f *fakePublisher) PublishUserSuspended(ctx context.Context, msg domain.UserSuspendedMessage) error {
	if f.suspendErr != nil {
		return f.suspendErr
	}
	f.suspended = append(f.suspended, msg)
	return nil
}

type fakeUserRepo struct {
	users      map[string]*domain.User
	suspendLog []string
	suspendErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	usr, ok := f.users[userID]
	if !ok {
		return nil, domain.WrapErrorf(errBoom, domain.ErrNotFound, "user with id: "+userID+" not in database")
	}
	return usr, nil
}

func (f *fakeUserRepo) Suspend(ctx context.Context, userID string, suspendedAt time.Time) error {
	if f.suspendErr != nil {
		return f.suspendErr
	}
	f.suspendLog = append(f.suspendLog, userID)
	f.users[userID].Status = domain.UserStatusSuspended
	f.users[userID].SuspendedAt = suspendedAt
	return nil
}

type fakeGateway struct {
	lastTx  []string
	callLog []float64
	err     error
	link    string
}

func (f *fakeGateway) InitializeTransaction(ctx context.Context, amount float64, email string, txRef string) (string, error) {
	f.lastTx = append(f.lastTx, txRef)
	f.callLog = append(f.callLog, amount)
	if f.err != nil {
		return "", f.err
	}
	if f.link != "" {
		return f.link, nil
	}
	return "https://checkout.test/" + txRef, nil
}
