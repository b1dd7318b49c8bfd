package board

import (
	"slices"
	"testing"
)

func TestMoveForwardAndBackward(t *testing.T) {
	in := []string{"a", "b", "c", "d"}
	if got := Move(in, 0, 2); !slices.Equal(got, []string{"b", "c", "a", "d"}) {
		t.Fatalf("Move(0,2) = %v", got)
	}
	if got := Move(in, 3, 1); !slices.Equal(got, []string{"a", "d", "b", "c"}) {
		t.Fatalf("Move(3,1) = %v", got)
	}
	if !slices.Equal(in, []string{"a", "b", "c", "d"}) {
		t.Fatalf("Move must not modify its input, got %v", in)
	}
}

func TestMoveClampsTarget(t *testing.T) {
	in := []int{1, 2, 3}
	if got := Move(in, 2, -4); !slices.Equal(got, []int{3, 1, 2}) {
		t.Fatalf("Move(2,-4) = %v", got)
	}
	if got := Move(in, 0, 99); !slices.Equal(got, []int{2, 3, 1}) {
		t.Fatalf("Move(0,99) = %v", got)
	}
}

func TestMoveOutOfRangeSourceIsCopy(t *testing.T) {
	in := []int{1, 2, 3}
	got := Move(in, 5, 0)
	if !slices.Equal(got, in) {
		t.Fatalf("Move(5,0) = %v", got)
	}
	got[0] = 42
	if in[0] != 1 {
		t.Fatal("Move must return a fresh slice")
	}
	if got := Move([]int(nil), 0, 0); len(got) != 0 {
		t.Fatalf("Move(nil) = %v", got)
	}
}
