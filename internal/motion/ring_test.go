package motion

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 80 * time.Millisecond

func TestNewRingBuffer_DefaultsCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewRingBuffer(0).Cap())
	assert.Equal(t, DefaultCapacity, NewRingBuffer(-3).Cap())
	assert.Equal(t, 4, NewRingBuffer(4).Cap())
}

func TestRecord_OverwritesOldestInOrder(t *testing.T) {
	rb := NewRingBuffer(3)
	for i := 1; i <= 5; i++ {
		rb.Record(i, -i, time.Duration(i)*tick)
	}

	want := []Sample{
		{TiltX: 3, TiltY: -3, CapturedAt: 3 * tick},
		{TiltX: 4, TiltY: -4, CapturedAt: 4 * tick},
		{TiltX: 5, TiltY: -5, CapturedAt: 5 * tick},
	}
	if diff := cmp.Diff(want, rb.Samples()); diff != "" {
		t.Errorf("Samples() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Sample{TiltX: 5, TiltY: -5, CapturedAt: 5 * tick}, rb.Latest())
	assert.Equal(t, 3, rb.Len())
}

func TestLatest_Empty(t *testing.T) {
	assert.Equal(t, Sample{}, NewRingBuffer(5).Latest())
	assert.Empty(t, NewRingBuffer(5).Samples())
}

func TestLookupNearest_PicksClosestTimestamp(t *testing.T) {
	rb := NewRingBuffer(DefaultCapacity)
	for i := 0; i < 40; i++ {
		rb.Record(i, i*2, time.Duration(i)*tick)
	}

	// newest is 39*80ms = 3120ms; 130ms back lands between ticks 37 (2960) and 38 (3040)
	got := rb.LookupNearest(39*tick - 130*time.Millisecond)
	assert.Equal(t, 37, got.TiltX)
	assert.Equal(t, 74, got.TiltY)
}

func TestLookupNearest_TieKeepsFirstPhysicalSlot(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Record(1, 0, 100*time.Millisecond)
	rb.Record(2, 0, 200*time.Millisecond)
	rb.Record(3, 0, 300*time.Millisecond)
	rb.Record(4, 0, 400*time.Millisecond)

	// 150ms is equidistant from slots 0 and 1
	assert.Equal(t, 1, rb.LookupNearest(150*time.Millisecond).TiltX)

	// after wrapping, slot 0 holds the newest sample but still wins ties
	rb.Record(5, 0, 500*time.Millisecond)
	assert.Equal(t, 5, rb.LookupNearest(450*time.Millisecond).TiltX)
}

func TestLookupNearest_ColdStartBiasTowardZero(t *testing.T) {
	rb := NewRingBuffer(DefaultCapacity)
	rb.Record(120, 40, 5*time.Second)

	// Only one real sample; the zeroed slots sit at timestamp 0 and win for
	// targets nearer to 0 than to the real sample.
	got := rb.LookupNearest(1 * time.Second)
	assert.Equal(t, Sample{}, got)

	got = rb.LookupNearest(4 * time.Second)
	assert.Equal(t, 120, got.TiltX)
}

func TestLookupNearest_NeverOlderThanWindowAfterWrap(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		capacity := 2 + rng.Intn(20)
		rb := NewRingBuffer(capacity)
		n := capacity + 1 + rng.Intn(100)
		var newest time.Duration
		for i := 0; i < n; i++ {
			newest = time.Duration(i) * tick
			rb.Record(rng.Intn(600)-300, rng.Intn(600)-300, newest)
		}
		for q := 0; q < 20; q++ {
			target := time.Duration(rng.Int63n(int64(newest + time.Second)))
			got := rb.LookupNearest(target)
			require.LessOrEqual(t, newest-got.CapturedAt, time.Duration(capacity)*tick,
				"capacity=%d n=%d target=%v", capacity, n, target)
		}
	}
}

func TestLookupNearest_MatchesLinearScanOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 200; run++ {
		rb := NewRingBuffer(1 + rng.Intn(20))
		now := time.Duration(0)
		for i := rng.Intn(60); i > 0; i-- {
			now += time.Duration(1+rng.Intn(150)) * time.Millisecond
			rb.Record(rng.Intn(600)-300, rng.Intn(600)-300, now)
		}
		target := time.Duration(rng.Int63n(int64(now + 500*time.Millisecond + 1)))

		got := rb.LookupNearest(target)

		// oracle: every slot, including never-written ones
		var bestDiff time.Duration = -1
		for _, s := range rb.slots {
			d := s.CapturedAt - target
			if d < 0 {
				d = -d
			}
			if bestDiff < 0 || d < bestDiff {
				bestDiff = d
			}
		}
		gotDiff := got.CapturedAt - target
		if gotDiff < 0 {
			gotDiff = -gotDiff
		}
		require.Equal(t, bestDiff, gotDiff, "run %d target %v", run, target)
	}
}
