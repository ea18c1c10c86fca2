package chat

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestAttachment_ReleaseIsIdempotent(t *testing.T) {
	var calls atomic.Int32
	att := newTestAttachment(func() { calls.Add(1) })

	var wg sync.WaitGroup
	var winners atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if att.Release() {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 || winners.Load() != 1 {
		t.Fatalf("expected exactly one release, hook=%d winners=%d", calls.Load(), winners.Load())
	}
	if !att.Released() {
		t.Errorf("expected Released() to report true")
	}
}

func TestAttachment_NilHook(t *testing.T) {
	att := newTestAttachment(nil)
	if !att.Release() {
		t.Errorf("first release should report true")
	}
	if att.Release() {
		t.Errorf("second release should report false")
	}
}
