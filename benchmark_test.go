package bramble

import "testing"

// setupBenchScene creates an entered Scene with n rect nodes laid out on a
// 100-column grid.
func setupBenchScene(n int) *Scene {
	s := NewScene("bench")
	for i := 0; i < n; i++ {
		r := NewRect("r", 32, 32, ColorWhite)
		r.SetPosition(float64(i%100)*40, float64(i/100)*40)
		_ = s.AddChild(r)
	}
	s.enter(nil)
	return s
}

// --- Transform Benchmarks ---

func BenchmarkTransform_10000Dirty(b *testing.B) {
	s := setupBenchScene(10000)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		markSubtreeDirty(s.Root())
		s.Root().RefreshTransform()
	}
}

func BenchmarkTransform_10000Clean(b *testing.B) {
	s := setupBenchScene(10000)
	s.Root().RefreshTransform()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Root().RefreshTransform()
	}
}

func BenchmarkTransform_DeepChain(b *testing.B) {
	root := NewNode("root")
	leaf := root
	for i := 0; i < 64; i++ {
		c := NewNode("c")
		c.SetPosition(1, 1)
		_ = leaf.AddChild(c)
		leaf = c
	}
	leaf.RefreshTransform()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		root.SetRotation(float64(i % 360))
		leaf.RefreshTransform()
	}
}

// --- Sort Benchmark ---

func BenchmarkSortedChildren_10000(b *testing.B) {
	s := setupBenchScene(10000)
	children := s.Root().Children()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		children[i%len(children)].SetZOrder(i % 7)
		_ = s.Root().SortedChildren()
	}
}

// --- Update Benchmarks ---

func BenchmarkSceneUpdate_1000Actions(b *testing.B) {
	s := setupBenchScene(1000)
	for _, c := range s.Root().Children() {
		c.RunAction(Sequence(MoveBy(1, 10, 0), MoveBy(1, -10, 0)).SetLoops(LoopForever))
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Update(1.0 / 60)
	}
}

// --- Hit Testing Benchmark ---

func BenchmarkDispatch_1000Responsible(b *testing.B) {
	s := NewScene("hit")
	for i := 0; i < 1000; i++ {
		n := NewRect("n", 10, 10, ColorWhite)
		n.Responsible = true
		n.SetPosition(float64(i%100)*12, float64(i/100)*12)
		_ = s.AddChild(n)
	}
	s.enter(nil)
	e := Event{Type: EventMouseMove, X: 500, Y: 50}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ev := e
		s.Dispatch(&ev)
	}
}
