package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitSignalProceedReleasesWaiter(t *testing.T) {
	sig := NewWaitSignal()
	done := make(chan struct{})

	go func() {
		sig.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before Proceed was called")
	case <-time.After(20 * time.Millisecond):
	}

	sig.Proceed()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Proceed")
	}
}

func TestWaitSignalSupportsSequentialWaitProceedPairs(t *testing.T) {
	sig := NewWaitSignal()

	for i := 0; i < 3; i++ {
		done := make(chan struct{})
		go func() {
			sig.Wait()
			close(done)
		}()
		sig.Proceed()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("round %d: Wait did not return after Proceed", i)
		}
	}
}

func TestWaitSignalProceedWithNoWaiterIsANoop(t *testing.T) {
	sig := NewWaitSignal()
	assert.NotPanics(t, func() { sig.Proceed() })
}
