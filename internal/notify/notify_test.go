package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/logger"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	assert.NotNil(t, r.Notifications())
	assert.Empty(t, r.Notifications())

	r.Success("saved")
	r.Error("failed")
	r.Info("fyi")

	assert.Equal(t, []Notification{
		{Level: LevelSuccess, Message: "saved"},
		{Level: LevelError, Message: "failed"},
		{Level: LevelInfo, Message: "fyi"},
	}, r.Notifications())
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Info("x")
		}()
	}
	wg.Wait()
	assert.Len(t, r.Notifications(), 50)
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	m := Multi{a, b, NewLogSink(logger.Nop())}

	m.Success("ok")
	m.Error("bad")

	assert.Equal(t, a.Notifications(), b.Notifications())
	assert.Len(t, a.Notifications(), 2)

	Discard.Error("ignored")
}
