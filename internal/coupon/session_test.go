package coupon

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/query"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type userErr struct{ msg string }

func (e userErr) Error() string       { return "remote: " + e.msg }
func (e userErr) UserMessage() string { return e.msg }

// fakeService answers from a table keyed by code. A gate, when set for a
// total, blocks the call until the channel is closed.
type fakeService struct {
	mu    sync.Mutex
	calls []models.ApplyCouponInput
	gates map[float64]chan struct{}
	fail  map[string]error
}

func newFakeService() *fakeService {
	return &fakeService{gates: map[float64]chan struct{}{}, fail: map[string]error{}}
}

func (f *fakeService) ApplyCoupon(ctx context.Context, in models.ApplyCouponInput) (*models.AppliedCoupon, error) {
	f.mu.Lock()
	f.calls = append(f.calls, in)
	gate := f.gates[in.OrderTotal]
	err := f.fail[in.Code]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	discount := in.OrderTotal / 10
	return &models.AppliedCoupon{
		Coupon:         models.Coupon{Code: in.Code, Type: models.CouponTypePercentage, Value: 10},
		DiscountAmount: discount,
		OriginalTotal:  in.OrderTotal,
		FinalTotal:     in.OrderTotal - discount,
	}, nil
}

func (f *fakeService) gate(total float64) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[total] = ch
	return ch
}

func (f *fakeService) setFail(code string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[code] = err
}

func (f *fakeService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestSession(t *testing.T, rawURL string) (*Session, *fakeService, *query.Location, *notify.Recorder) {
	t.Helper()
	loc, err := query.ParseLocation(rawURL)
	require.NoError(t, err)
	svc := newFakeService()
	rec := notify.NewRecorder()
	return NewSession(svc, loc, rec, "FCFA"), svc, loc, rec
}

func TestApply_Success(t *testing.T) {
	s, svc, loc, rec := newTestSession(t, "/checkout?step=2")

	c, err := s.Apply(context.Background(), "  save10 ", 200)
	require.NoError(t, err)

	assert.Equal(t, "SAVE10", c.Code)
	assert.Equal(t, 20.0, c.DiscountAmount)
	assert.Equal(t, "SAVE10", s.Applied().Code)
	assert.Equal(t, "/checkout?step=2&coupon=SAVE10", loc.String())
	assert.Equal(t, []models.ApplyCouponInput{{Code: "SAVE10", OrderTotal: 200}}, svc.calls)
	assert.Equal(t, []notify.Notification{{Level: notify.LevelSuccess, Message: `Coupon "SAVE10" applied! You save 10%`}}, rec.Notifications())
	assert.Equal(t, 10.0, s.DiscountPercentage(200))
}

func TestApply_EmptyCode(t *testing.T) {
	s, svc, _, rec := newTestSession(t, "/checkout")

	_, err := s.Apply(context.Background(), "   ", 100)

	assert.ErrorIs(t, err, ErrEmptyCode)
	assert.Equal(t, 0, svc.callCount())
	assert.Equal(t, "Please enter a coupon code", rec.Notifications()[0].Message)
}

func TestApply_FailClosed(t *testing.T) {
	s, svc, loc, rec := newTestSession(t, "/checkout")
	ctx := context.Background()

	_, err := s.Apply(ctx, "SAVE10", 100)
	require.NoError(t, err)
	require.True(t, loc.Query().Has(ParamCoupon))

	svc.setFail("EXPIRED", userErr{"Coupon has expired"})
	_, err = s.Apply(ctx, "expired", 100)

	require.Error(t, err)
	var ue userErr
	assert.ErrorAs(t, err, &ue)
	assert.Nil(t, s.Applied())
	assert.False(t, loc.Query().Has(ParamCoupon))
	assert.Equal(t, 0.0, s.DiscountPercentage(100))

	last := rec.Notifications()[len(rec.Notifications())-1]
	assert.Equal(t, notify.Notification{Level: notify.LevelError, Message: "Coupon has expired"}, last)
}

func TestApply_GenericErrorMessage(t *testing.T) {
	s, svc, _, rec := newTestSession(t, "/checkout")
	svc.setFail("BAD", errors.New("connection reset"))

	_, err := s.Apply(context.Background(), "bad", 100)

	require.Error(t, err)
	assert.Equal(t, "Failed to apply coupon", rec.Notifications()[0].Message)
}

func TestRecalculate(t *testing.T) {
	s, svc, loc, _ := newTestSession(t, "/checkout")
	ctx := context.Background()

	c, err := s.Recalculate(ctx, 50)
	assert.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, 0, svc.callCount())

	_, err = s.Apply(ctx, "SAVE10", 100)
	require.NoError(t, err)

	c, err = s.Recalculate(ctx, 300)
	require.NoError(t, err)
	assert.Equal(t, 30.0, c.DiscountAmount)
	assert.Equal(t, 300.0, s.Applied().OriginalTotal)

	svc.setFail("SAVE10", userErr{"Minimum order not reached"})
	_, err = s.Recalculate(ctx, 5)
	require.Error(t, err)
	assert.Nil(t, s.Applied())
	assert.False(t, loc.Query().Has(ParamCoupon))
}

func TestOnTotalChanged(t *testing.T) {
	s, svc, _, _ := newTestSession(t, "/checkout")
	ctx := context.Background()

	_, err := s.OnTotalChanged(ctx, 100, 200)
	require.NoError(t, err)
	assert.Equal(t, 0, svc.callCount())

	_, err = s.Apply(ctx, "SAVE10", 100)
	require.NoError(t, err)

	for _, tt := range []struct{ old, new float64 }{{100, 100}, {100, 0}, {100, -5}} {
		c, err := s.OnTotalChanged(ctx, tt.old, tt.new)
		require.NoError(t, err)
		assert.Equal(t, 100.0, c.OriginalTotal)
	}
	assert.Equal(t, 1, svc.callCount())

	c, err := s.OnTotalChanged(ctx, 100, 150)
	require.NoError(t, err)
	assert.Equal(t, 150.0, c.OriginalTotal)
	assert.Equal(t, 2, svc.callCount())
}

func TestSyncFromURL(t *testing.T) {
	s, svc, loc, _ := newTestSession(t, "/checkout?coupon=save10")
	ctx := context.Background()

	c, err := s.SyncFromURL(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", c.Code)
	assert.Equal(t, "/checkout?coupon=SAVE10", loc.String())

	_, err = s.SyncFromURL(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, svc.callCount(), "same code is not re-applied")

	loc.Replace(query.NewParams(), ParamCoupon)
	c, err = s.SyncFromURL(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, s.Applied())
}

func TestSyncFromURL_Quiet(t *testing.T) {
	s, svc, loc, rec := newTestSession(t, "/checkout?coupon=SAVE10")
	ctx := context.Background()

	_, err := s.SyncFromURL(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, rec.Notifications())

	s2, _, loc2, rec2 := newTestSession(t, "/checkout?coupon=GONE")
	s2.svc.(*fakeService).setFail("GONE", errors.New("connection reset"))
	_, err = s2.SyncFromURL(ctx, 100)
	require.Error(t, err)
	assert.Equal(t, []notify.Notification{{Level: notify.LevelError, Message: "Coupon is no longer valid"}}, rec2.Notifications())
	assert.Equal(t, "/checkout", loc2.String())

	assert.Equal(t, 1, svc.callCount())
	assert.Equal(t, "/checkout?coupon=SAVE10", loc.String())
}

func TestSyncFromURL_IgnoresListParam(t *testing.T) {
	s, svc, _, _ := newTestSession(t, "/checkout?coupon=A&coupon=B")

	c, err := s.SyncFromURL(context.Background(), 100)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, 0, svc.callCount())
}

func TestRemove(t *testing.T) {
	s, _, loc, rec := newTestSession(t, "/checkout?coupon=SAVE10&step=3")
	ctx := context.Background()
	_, err := s.SyncFromURL(ctx, 100)
	require.NoError(t, err)

	s.Remove()

	assert.Nil(t, s.Applied())
	assert.Equal(t, "/checkout?step=3", loc.String())
	last := rec.Notifications()[len(rec.Notifications())-1]
	assert.Equal(t, notify.Notification{Level: notify.LevelInfo, Message: "Coupon removed"}, last)
}

func TestRecalculate_LastWriteWins(t *testing.T) {
	s, svc, _, _ := newTestSession(t, "/checkout")
	ctx := context.Background()
	_, err := s.Apply(ctx, "SAVE10", 100)
	require.NoError(t, err)

	slow := svc.gate(200)

	var (
		wg      sync.WaitGroup
		slowErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = s.Recalculate(ctx, 200)
	}()

	require.Eventually(t, func() bool { return svc.callCount() == 2 }, waitFor, tick)

	fresh, err := s.Recalculate(ctx, 300)
	require.NoError(t, err)
	assert.Equal(t, 300.0, fresh.OriginalTotal)

	close(slow)
	wg.Wait()

	assert.ErrorIs(t, slowErr, ErrSuperseded)
	assert.Equal(t, 300.0, s.Applied().OriginalTotal)
}

func TestApply_StaleFailureDoesNotClearNewerCoupon(t *testing.T) {
	s, svc, loc, rec := newTestSession(t, "/checkout")
	ctx := context.Background()

	svc.setFail("OLD", userErr{"expired"})
	slow := svc.gate(1)

	var (
		wg     sync.WaitGroup
		oldErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, oldErr = s.Apply(ctx, "OLD", 1)
	}()
	require.Eventually(t, func() bool { return svc.callCount() == 1 }, waitFor, tick)

	_, err := s.Apply(ctx, "NEW", 100)
	require.NoError(t, err)

	close(slow)
	wg.Wait()

	assert.ErrorIs(t, oldErr, ErrSuperseded)
	assert.Equal(t, "NEW", s.Applied().Code)
	assert.Equal(t, "NEW", loc.Query().Get(ParamCoupon).String())
	for _, n := range rec.Notifications() {
		assert.NotEqual(t, notify.LevelError, n.Level)
	}
}

func TestRemove_DropsInFlight(t *testing.T) {
	s, svc, loc, _ := newTestSession(t, "/checkout")
	ctx := context.Background()
	slow := svc.gate(100)

	done := make(chan error, 1)
	go func() {
		_, err := s.Apply(ctx, "SAVE10", 100)
		done <- err
	}()
	require.Eventually(t, func() bool { return svc.callCount() == 1 }, waitFor, tick)

	s.Remove()
	close(slow)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Nil(t, s.Applied())
	assert.False(t, loc.Query().Has(ParamCoupon))
}
