package progress

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_ConcurrentTicks(t *testing.T) {
	var buf bytes.Buffer
	tr := NewWithWriter(&buf, "collecting", 50)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Done("file.py")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1.0, tr.bar.State().CurrentPercent)
	tr.Finish()
	assert.Contains(t, buf.String(), "collecting")
}

func TestTracker_Fail(t *testing.T) {
	var buf bytes.Buffer
	tr := NewWithWriter(&buf, "collecting", 3)
	tr.Tick()
	tr.Fail(errors.New("disk full"))
	assert.Contains(t, buf.String(), "collecting error: disk full")
}

func TestTracker_NilIsNoop(t *testing.T) {
	var tr *Tracker
	assert.NotPanics(t, func() {
		tr.Tick()
		tr.Done("x")
		tr.Finish()
		tr.Fail(errors.New("x"))
	})
}
