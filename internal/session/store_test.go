package session

import (
	"fmt"
	"testing"
	"time"
)

func TestStoreAppendAndGet(t *testing.T) {
	s := NewStore(10, 0)

	s.Append("a", Message{Role: "user", Content: "hello"})
	s.Append("a", Message{Role: "assistant", Content: "hi there"})

	msgs := s.Get("a")
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	if msgs[0].Content != "hello" || msgs[1].Content != "hi there" {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := NewStore(10, 0)
	if got := s.Get("nope"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := NewStore(10, 0)
	s.Append("a", Message{Role: "user", Content: "original"})

	msgs := s.Get("a")
	msgs[0].Content = "mutated"

	if again := s.Get("a"); again[0].Content != "original" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	s := NewStore(3, 0)

	for i := 1; i <= 3; i++ {
		s.Append(fmt.Sprintf("s%d", i), Message{Role: "user", Content: "x"})
	}

	// touch s1 so s2 becomes the LRU
	s.Get("s1")

	s.Append("s4", Message{Role: "user", Content: "x"})

	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}
	if s.Get("s2") != nil {
		t.Error("s2 should have been evicted")
	}
	if s.Get("s1") == nil || s.Get("s3") == nil || s.Get("s4") == nil {
		t.Error("wrong session evicted")
	}
}

func TestStoreTTLExpiry(t *testing.T) {
	s := NewStore(10, time.Minute)

	base := time.Unix(1000, 0)
	s.now = func() time.Time { return base }

	s.Append("a", Message{Role: "user", Content: "x"})

	s.now = func() time.Time { return base.Add(30 * time.Second) }
	if s.Get("a") == nil {
		t.Fatal("session expired too early")
	}

	// the Get above refreshed the TTL
	s.now = func() time.Time { return base.Add(90 * time.Second) }
	if s.Get("a") == nil {
		t.Fatal("session should still be alive after refresh")
	}

	s.now = func() time.Time { return base.Add(10 * time.Minute) }
	if s.Get("a") != nil {
		t.Error("session should have expired")
	}
}

func TestStoreAppendAfterExpiryStartsFresh(t *testing.T) {
	s := NewStore(10, time.Minute)

	base := time.Unix(1000, 0)
	s.now = func() time.Time { return base }
	s.Append("a", Message{Role: "user", Content: "old"})

	s.now = func() time.Time { return base.Add(time.Hour) }
	s.Append("a", Message{Role: "user", Content: "new"})

	msgs := s.Get("a")
	if len(msgs) != 1 || msgs[0].Content != "new" {
		t.Errorf("messages = %+v, want only the fresh turn", msgs)
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(10, 0)
	s.Append("a", Message{Role: "user", Content: "x"})
	s.Delete("a")
	if s.Get("a") != nil {
		t.Error("session survived delete")
	}
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
}
