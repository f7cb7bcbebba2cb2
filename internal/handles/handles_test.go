package handles

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	type testData struct {
		Name  string
		Value int
	}

	tbl := New()
	data := &testData{Name: "test", Value: 42}
	id := tbl.Register(data)

	if id == 0 {
		t.Error("Register should return non-zero id")
	}

	got, ok := tbl.Lookup(id)
	if !ok {
		t.Fatal("Lookup should find registered value")
	}

	gotData, ok := got.(*testData)
	if !ok {
		t.Fatalf("Lookup returned wrong type: %T", got)
	}
	if gotData != data {
		t.Errorf("Lookup returned a different pointer: %p != %p", gotData, data)
	}
}

func TestTake(t *testing.T) {
	var tbl Table
	id := tbl.Register("payload")

	v, ok := tbl.Take(id)
	if !ok || v != "payload" {
		t.Fatalf("Take = %v, %v; want payload, true", v, ok)
	}

	if _, ok := tbl.Lookup(id); ok {
		t.Error("Expected Lookup to fail after Take")
	}
	if _, ok := tbl.Take(id); ok {
		t.Error("Second Take should report false")
	}
	if tbl.Count() != 0 {
		t.Errorf("Count = %d after Take, want 0", tbl.Count())
	}
}

func TestUnregister(t *testing.T) {
	tbl := New()
	id := tbl.Register(7)
	tbl.Unregister(id)
	tbl.Unregister(id)

	if _, ok := tbl.Lookup(id); ok {
		t.Error("Expected value to be gone after Unregister")
	}
	if tbl.Count() != 0 {
		t.Errorf("Count = %d, want 0", tbl.Count())
	}
}

func TestLookupZeroAndUnknown(t *testing.T) {
	tbl := New()
	if _, ok := tbl.Lookup(0); ok {
		t.Error("id 0 must never resolve")
	}
	if _, ok := tbl.Lookup(999999); ok {
		t.Error("Lookup of unknown id should fail")
	}
	if _, ok := tbl.Take(0); ok {
		t.Error("Take of id 0 should fail")
	}
}

func TestIDsAreUnique(t *testing.T) {
	tbl := New()
	seen := make(map[uintptr]bool)

	for i := 0; i < 1000; i++ {
		id := tbl.Register(i)
		if seen[id] {
			t.Errorf("id %d was returned twice", id)
		}
		seen[id] = true
	}
	if tbl.Count() != 1000 {
		t.Errorf("Count = %d, want 1000", tbl.Count())
	}

	for id := range seen {
		tbl.Unregister(id)
	}
	if tbl.Count() != 0 {
		t.Errorf("Count = %d after cleanup, want 0", tbl.Count())
	}
}

func TestConcurrentTakeSingleWinner(t *testing.T) {
	const racers = 64

	tbl := New()
	id := tbl.Register(struct{}{})

	var wins atomic.Int32
	var wg sync.WaitGroup
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func() {
			defer wg.Done()
			if _, ok := tbl.Take(id); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("Take succeeded %d times, want exactly 1", wins.Load())
	}
}

func TestConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numOps = 100

	tbl := New()
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(g int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				data := struct {
					G   int
					Seq int
				}{g, j}
				id := tbl.Register(&data)
				if _, ok := tbl.Lookup(id); !ok {
					t.Errorf("Lookup failed for id %d", id)
				}
				tbl.Unregister(id)
			}
		}(i)
	}

	wg.Wait()
	if tbl.Count() != 0 {
		t.Errorf("Count = %d, want 0", tbl.Count())
	}
}
