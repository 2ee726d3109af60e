package matchacc

import (
	"sync"
	"testing"
)

func TestAtomicCount(t *testing.T) {
	a := NewAtomicCount()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a.AddMatch(KMerMatch{ReadID: uint64(i), Position: i, Forward: true})
		}(i)
	}
	wg.Wait()
	if a.Count() != 100 {
		t.Fatalf("got %d, want 100", a.Count())
	}
	if got := string(a.AppendText(nil)); got != "100" {
		t.Fatalf("got %q, want 100", got)
	}
}

func TestPositionalLogRoundTrip(t *testing.T) {
	p := NewPositionalLog()
	p.AddMatch(KMerMatch{ReadID: 1, Position: 5, Forward: true})
	p.AddMatch(KMerMatch{ReadID: 1, Position: 17, Forward: true})
	p.AddMatch(KMerMatch{ReadID: 2, Position: 0, Forward: false})

	if p.Count() != 3 {
		t.Fatalf("count = %d, want 3", p.Count())
	}
	matches := p.Matches()
	want := []KMerMatch{
		{ReadID: 1, Position: 5, Forward: true},
		{ReadID: 1, Position: 17, Forward: true},
		{ReadID: 2, Position: 0, Forward: false},
	}
	if len(matches) != len(want) {
		t.Fatalf("got %d matches, want %d", len(matches), len(want))
	}
	for i, m := range matches {
		if m != want[i] {
			t.Errorf("match %d = %+v, want %+v", i, m, want[i])
		}
	}
}

func TestZigZagPositionZero(t *testing.T) {
	// Position 0 must distinguish forward from reverse without ambiguity.
	fwd := encodeStrandedPosition(0, true)
	rev := encodeStrandedPosition(0, false)
	if fwd == rev {
		t.Fatal("position 0 forward/reverse encodings collide")
	}
	p, f := decodeStrandedPosition(fwd)
	if p != 0 || !f {
		t.Fatalf("decode(fwd) = (%d,%t), want (0,true)", p, f)
	}
	p, f = decodeStrandedPosition(rev)
	if p != 0 || f {
		t.Fatalf("decode(rev) = (%d,%t), want (0,false)", p, f)
	}
}

func TestAppendTextPositional(t *testing.T) {
	p := NewPositionalLog()
	p.AddMatch(KMerMatch{ReadID: 5, Position: 9, Forward: false})
	got := string(p.AppendText(nil))
	if got != "(5,9,false)" {
		t.Fatalf("got %q", got)
	}
}
