package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/stayboard/internal/config"
)

func TestLocal_SerializesSameRoom(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "room-01")
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Fatalf("%d holders at once, want 1", maxSeen)
	}
}

func TestLocal_RoomsAreIndependent(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "room-01")
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	other, err := l.Lock(ctx, "room-02")
	if err != nil {
		t.Fatalf("room-02 blocked by room-01: %v", err)
	}
	other()
}

func TestLocal_TimesOut(t *testing.T) {
	l := NewLocal()
	unlock, _ := l.Lock(context.Background(), "room-01")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, "room-01"); !errors.Is(err, ErrNotAcquired) {
		t.Fatalf("error = %v, want ErrNotAcquired", err)
	}

	unlock()
	unlock() // second call is a no-op
	again, err := l.Lock(context.Background(), "room-01")
	if err != nil {
		t.Fatalf("lock after release: %v", err)
	}
	again()
}

func TestNew_FallsBackWithoutRedis(t *testing.T) {
	if _, ok := New(nil, config.LockConfig{Distributed: true}).(*Local); !ok {
		t.Fatal("New(nil) did not return the local locker")
	}
}
