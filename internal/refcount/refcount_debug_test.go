//go:build debug_refcount

package refcount

import "testing"

func TestIncDecCounts(t *testing.T) {
	Inc("packet")
	Inc("packet")
	Dec("packet")
	if got := Counts()["packet"]; got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}
