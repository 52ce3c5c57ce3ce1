package benchmark

import (
	"context"
	"testing"

	"github.com/vnykmshr/muxflow/pkg/scheduling/taskset"
)

// BenchmarkTaskSetAddPoll measures the add-then-resolve round trip.
func BenchmarkTaskSetAddPoll(b *testing.B) {
	s := taskset.New[int]()
	defer func() { _ = s.Close() }()

	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.AddFunc(func(context.Context) int { return i }); err != nil {
			b.Fatal(err)
		}
		if _, ok, err := s.PollNext(ctx); err != nil || !ok {
			b.Fatalf("unexpected poll result at %d: %v", i, err)
		}
	}
}

// BenchmarkTaskSetBatch measures resolving batches of pending futures.
func BenchmarkTaskSetBatch(b *testing.B) {
	batchSizes := []int{10, 100, 1000}

	for _, batch := range batchSizes {
		b.Run(sizeLabel(batch), func(b *testing.B) {
			b.ReportAllocs()
			ctx := context.Background()

			for i := 0; i < b.N; i++ {
				s := taskset.New[int]()
				for j := 0; j < batch; j++ {
					v := j
					if _, err := s.AddFunc(func(context.Context) int { return v }); err != nil {
						b.Fatal(err)
					}
				}
				for j := 0; j < batch; j++ {
					if _, ok, err := s.PollNext(ctx); err != nil || !ok {
						b.Fatalf("unexpected poll result: %v", err)
					}
				}
				_ = s.Close()
			}
		})
	}
}
