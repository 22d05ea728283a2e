package rng

import "testing"

func TestSeededSourceIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
}

func TestIntRangeInclusive(t *testing.T) {
	g := New(7)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := g.IntRange(2, 4)
		if v < 2 || v > 4 {
			t.Fatalf("out of range: %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected all of 2..4 drawn, got %v", seen)
	}
}

func TestUniformBounds(t *testing.T) {
	g := New(9)
	for i := 0; i < 1000; i++ {
		v := g.Uniform(0.25, 3)
		if v < 0.25 || v > 3 {
			t.Fatalf("out of range: %v", v)
		}
	}
}

func TestSampleWithoutReplacement(t *testing.T) {
	g := New(3)
	items := []string{"a", "b", "c", "d"}
	got := g.Sample(items, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 picks, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, s := range got {
		if seen[s] {
			t.Fatalf("duplicate pick %q in %v", s, got)
		}
		seen[s] = true
	}
	if all := g.Sample(items, 10); len(all) != 4 {
		t.Fatalf("expected sample capped at 4, got %d", len(all))
	}
	if items[0] != "a" || items[1] != "b" || items[2] != "c" || items[3] != "d" {
		t.Fatalf("input slice was mutated: %v", items)
	}
	if g.Sample(nil, 2) != nil {
		t.Fatalf("expected nil sample from empty input")
	}
}
