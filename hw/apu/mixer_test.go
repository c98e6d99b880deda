package apu

import "testing"

func TestMixSilence(t *testing.T) {
	if got := Mix(0, 0, 0, 0); got != 0 {
		t.Errorf("Mix(0, 0, 0, 0) = %v, want 0", got)
	}
}

func TestMixRange(t *testing.T) {
	for sq1 := range uint8(16) {
		for sq2 := range uint8(16) {
			for tri := range uint8(16) {
				for noise := range uint8(16) {
					out := Mix(sq1, sq2, tri, noise)
					if out < 0 || out > 1 {
						t.Fatalf("Mix(%d, %d, %d, %d) = %v, out of [0, 1]", sq1, sq2, tri, noise, out)
					}
				}
			}
		}
	}
}

func TestMixMonotonic(t *testing.T) {
	prev := Mix(0, 0, 0, 0)
	for lvl := uint8(1); lvl < 16; lvl++ {
		out := Mix(lvl, 0, 0, 0)
		if out <= prev {
			t.Fatalf("Mix(%d, 0, 0, 0) = %v, not above %v", lvl, out, prev)
		}
		prev = out
	}

	// Both pulse channels share the same DAC.
	if Mix(3, 5, 0, 0) != Mix(5, 3, 0, 0) {
		t.Errorf("pulse channels are not symmetric")
	}
	if Mix(0, 0, 2, 0) != Mix(0, 0, 0, 3) {
		t.Errorf("Mix(0, 0, 2, 0) != Mix(0, 0, 0, 3)")
	}
}
