package matchfmt

import "testing"

func TestCountOnlyText(t *testing.T) {
	m := NewCountOnly(7)
	for i := 0; i < 6; i++ {
		m.AddMatch(i, true)
	}
	if got, want := m.Text(), " 6 85.71429"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPositionalText(t *testing.T) {
	m := NewPositional(3)
	m.AddMatch(5, true)
	m.AddMatch(9, false)
	m.CoveredBases = 12
	if got, want := m.Text(), " 2 66.66667 5 -9 (12)"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPercentZeroMappedPositions(t *testing.T) {
	m := NewCountOnly(0)
	if m.Percent() != 0 {
		t.Fatalf("got %v, want 0", m.Percent())
	}
}

func TestRoundPercentHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{50.0, 50.0},
		{0.0, 0.0},
		{100.0, 100.0},
		// 2.5 at the fifth decimal rounds away from zero (not to even).
		{0.000025, 0.00003},
		{-0.000025, -0.00003},
	}
	for _, c := range cases {
		if got := roundPercent(c.in); got != c.want {
			t.Errorf("roundPercent(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPercentExactlyFiftyAndJustAbove(t *testing.T) {
	// percent exactly 50.0 and just above it.
	exact := NewCountOnly(2)
	exact.AddMatch(0, true)
	if exact.Percent() != 50.0 {
		t.Fatalf("got %v, want 50.0", exact.Percent())
	}
	above := NewCountOnly(200000)
	for i := 0; i < 100001; i++ {
		above.AddMatch(i, true)
	}
	if p := above.Percent(); p <= 50.0 {
		t.Fatalf("got %v, want > 50.0", p)
	}
}
