package graph_test

import (
	"testing"

	"github.com/katalvlaran/aedificium/graph"
	"github.com/katalvlaran/aedificium/walk"
)

// BenchmarkBisimilar compares two 30-room random graphs.
func BenchmarkBisimilar(b *testing.B) {
	g, err := graph.Random(30, walk.NewRand(7))
	if err != nil {
		b.Fatal(err)
	}
	h := g.Clone()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = graph.Bisimilar(g, h)
	}
}
