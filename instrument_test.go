package instruments

import (
	"math"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounter_Add(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		adds    []float64
		want    float64
		wantErr bool
	}{
		{name: "sum of increments", adds: []float64{1, 2.5, 0, 3}, want: 6.5},
		{name: "negative rejected", adds: []float64{2, -1}, want: 2, wantErr: true},
		{name: "NaN rejected", adds: []float64{nan()}, want: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Counter{}
			var err error
			for _, a := range tt.adds {
				if e := c.Add(a); e != nil {
					err = e
				}
			}
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidArgument)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.want, c.Value())
		})
	}
}

func TestCounter_Concurrent(t *testing.T) {
	t.Parallel()
	c := &Counter{}

	workers := runtime.NumCPU() * 2
	iters := 1000
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, float64(workers*iters), c.Value())
}

func TestGauge(t *testing.T) {
	t.Parallel()
	g := &Gauge{}
	require.Equal(t, 0.0, g.Value())

	g.Set(-4)
	require.Equal(t, -4.0, g.Value())
	g.Inc()
	g.Inc()
	g.Dec()
	g.Add(0.5)
	require.Equal(t, -2.5, g.Value())
}

func TestPeakGauge_ReadResets(t *testing.T) {
	t.Parallel()
	p := &PeakGauge{}

	p.Record(10)
	p.Record(20)
	require.Equal(t, 20.0, p.Value())
	require.Equal(t, 0.0, p.Value())

	p.Record(30)
	p.Record(20)
	require.Equal(t, 30.0, p.Value())
	require.Equal(t, 0.0, p.Value())
}

func TestPeakGauge_Concurrent(t *testing.T) {
	t.Parallel()
	p := &PeakGauge{}

	workers := runtime.NumCPU() * 2
	iters := 1000
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				p.Record(float64(id*iters + i))
			}
		}(w)
	}
	wg.Wait()

	require.Equal(t, float64(workers*iters-1), p.Value())
	require.Equal(t, 0.0, p.Value())
}

func TestPeakGauge_ConcurrentReadsNeverDoubleCount(t *testing.T) {
	t.Parallel()
	p := &PeakGauge{}

	const recorded = 42.0
	p.Record(recorded)

	readers := runtime.NumCPU() * 2
	results := make([]float64, readers)
	wg := sync.WaitGroup{}
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func(idx int) {
			defer wg.Done()
			results[idx] = p.Value()
		}(i)
	}
	wg.Wait()

	seen := 0
	for _, v := range results {
		if v == recorded {
			seen++
		} else {
			require.Equal(t, 0.0, v)
		}
	}
	require.Equal(t, 1, seen)
}

func TestHistogram_Observe(t *testing.T) {
	t.Parallel()

	h := newHistogram([]float64{1, 2, 5})
	for _, v := range []float64{0.5, 1, 1.5, 2, 7} {
		h.Observe(v)
	}

	snap := h.Snapshot()
	require.Equal(t, []float64{1, 2, 5}, snap.Bounds)
	require.Equal(t, []uint64{2, 4, 4}, snap.Buckets)
	require.Equal(t, uint64(5), snap.Count)
	require.Equal(t, 12.0, snap.Sum)
	require.Equal(t, uint64(5), h.Count())
	require.Equal(t, 12.0, h.Sum())
}

func TestHistogram_SingleObservationIsCumulative(t *testing.T) {
	t.Parallel()

	r := newRegistry(t)
	f, err := r.Histogram("histogram", "-", nil, 1.0, 2.0)
	require.NoError(t, err)
	f.MustLabels().Observe(1.0)

	for _, tc := range []struct {
		name   string
		labels []Label
		want   float64
	}{
		{"histogram_bucket", []Label{L("le", "1.0")}, 1},
		{"histogram_bucket", []Label{L("le", "2.0")}, 1},
		{"histogram_bucket", []Label{L("le", "+Inf")}, 1},
		{"histogram_count", nil, 1},
		{"histogram_sum", nil, 1},
	} {
		v, ok := r.Get(tc.name, tc.labels...)
		require.True(t, ok, "%s %v", tc.name, tc.labels)
		require.Equal(t, tc.want, v, "%s %v", tc.name, tc.labels)
	}
}

func TestHistogram_DefaultAndTrailingInfBuckets(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)

	def, err := r.Histogram("def", "-", nil)
	require.NoError(t, err)
	require.Equal(t, DefaultBuckets, def.MustLabels().Bounds())

	trimmed, err := r.Histogram("trimmed", "-", nil, 1, 2, math.Inf(1))
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, trimmed.MustLabels().Bounds())
}

func TestHistogram_Concurrent(t *testing.T) {
	t.Parallel()
	h := newHistogram([]float64{0.05, 0.1})

	workers := runtime.NumCPU() * 2
	iters := 500
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				h.Observe(float64((base%10)+i%10) / 100.0)
			}
		}(w)
	}
	wg.Wait()

	snap := h.Snapshot()
	require.Equal(t, uint64(workers*iters), snap.Count)
	require.LessOrEqual(t, snap.Buckets[0], snap.Buckets[1])
	require.LessOrEqual(t, snap.Buckets[1], snap.Count)
}

func TestSummary(t *testing.T) {
	t.Parallel()

	s, err := newSummary(DefaultQuantiles)
	require.NoError(t, err)
	require.True(t, math.IsNaN(s.Mean()))

	q, err := s.Quantile(0.5)
	require.NoError(t, err)
	require.True(t, math.IsNaN(q))

	for _, v := range []float64{99, 100, 101} {
		s.Observe(v)
	}
	require.Equal(t, 100.0, s.Mean())
	require.Equal(t, 300.0, s.Sum())
	require.Equal(t, uint64(3), s.Count())

	q, err = s.Quantile(0.5)
	require.NoError(t, err)
	require.Contains(t, []float64{99, 100, 101}, q)

	_, err = s.Quantile(-0.5)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSummary_CustomQuantiles(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)

	f, err := r.Summary("rt", "-", []string{"op"}, 0.9, 0.1)
	require.NoError(t, err)
	for i := 1; i <= 10; i++ {
		f.MustLabels("read").Observe(float64(i))
	}

	p10, ok := r.SummaryQuantile("rt", 0.1, L("op", "read"))
	require.True(t, ok)
	require.Equal(t, 1.0, p10)
	p90, ok := r.SummaryQuantile("rt", 0.9, L("op", "read"))
	require.True(t, ok)
	require.Equal(t, 9.0, p90)

	// not a configured quantile
	_, ok = r.SummaryP50("rt", L("op", "read"))
	require.False(t, ok)
}

func TestSummary_Concurrent(t *testing.T) {
	t.Parallel()
	s, err := newSummary(DefaultQuantiles)
	require.NoError(t, err)

	workers := runtime.NumCPU() * 2
	iters := 1000
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				s.Observe(1)
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	require.Equal(t, uint64(workers*iters), snap.Count)
	require.Equal(t, float64(workers*iters), snap.Sum)
	require.Equal(t, 1.0, snap.Quantiles[0].Value)
}
