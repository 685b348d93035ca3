package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2023, time.November, 14, 22, 13, 20, 0, time.UTC)

func TestFake_NowOnlyMovesOnAdvance(t *testing.T) {
	c := Fake(epoch)
	if !c.Now().Equal(epoch) {
		t.Fatalf("want %v, got %v", epoch, c.Now())
	}
	c.Advance(90 * time.Second)
	if want := epoch.Add(90 * time.Second); !c.Now().Equal(want) {
		t.Fatalf("want %v, got %v", want, c.Now())
	}
}

func TestFake_TickerFiresPerInterval(t *testing.T) {
	c := Fake(epoch)
	tk := c.NewTicker(5 * time.Second)
	defer tk.Stop()

	c.Advance(4 * time.Second)
	select {
	case <-tk.C:
		t.Fatalf("ticked before the interval elapsed")
	default:
	}

	c.Advance(time.Second)
	select {
	case got := <-tk.C:
		if want := epoch.Add(5 * time.Second); !got.Equal(want) {
			t.Fatalf("tick time: want %v, got %v", want, got)
		}
	default:
		t.Fatalf("expected a tick at 5s")
	}
}

func TestFake_TickerDropsWhenFull(t *testing.T) {
	c := Fake(epoch)
	tk := c.NewTicker(time.Second)

	c.Advance(10 * time.Second)
	<-tk.C
	select {
	case <-tk.C:
		t.Fatalf("a full ticker channel should drop extra ticks")
	default:
	}
}

func TestFake_StoppedTickerIsSilent(t *testing.T) {
	c := Fake(epoch)
	tk := c.NewTicker(time.Second)
	tk.Stop()

	c.Advance(5 * time.Second)
	select {
	case <-tk.C:
		t.Fatalf("stopped ticker fired")
	default:
	}
}

func TestFake_WaitForTickers(t *testing.T) {
	c := Fake(epoch)
	done := make(chan struct{})
	go func() {
		c.WaitForTickers(1)
		close(done)
	}()

	c.NewTicker(time.Second)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("WaitForTickers did not return after a ticker was created")
	}
}
