package store

import (
	"testing"

	"github.com/i474232898/weather-dashboard/internal/render"
)

func TestViewStore_LastWriteWins(t *testing.T) {
	s := NewViewStore()

	if s.Node("t") != nil {
		t.Fatal("expected nil for unknown target")
	}

	first := render.Loading()
	second := render.ErrorState(render.MsgLoadFailed)
	s.Write("t", first)
	s.Write("t", second)

	if got := s.Node("t"); got != second {
		t.Fatalf("Node() = %v, want the last write", got)
	}
	v, ok := s.Get("t")
	if !ok || v.UpdatedAt.IsZero() {
		t.Fatalf("Get() = %+v, %v", v, ok)
	}

	s.Delete("t")
	if _, ok := s.Get("t"); ok {
		t.Fatal("target still present after Delete")
	}
}
