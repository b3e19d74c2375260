package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_RejectsEleventhRequest(t *testing.T) {
	l := NewLimiter(60*time.Second, 10)
	now := time.Now()
	for i := 0; i < 10; i++ {
		if !l.Admit("client-a", now.Add(time.Duration(i)*time.Second)) {
			t.Fatalf("request %d should be admitted", i+1)
		}
	}
	if l.Admit("client-a", now.Add(10*time.Second)) {
		t.Error("11th request within the window should be rejected")
	}
}

func TestLimiter_WindowExpiryResumesAdmission(t *testing.T) {
	l := NewLimiter(60*time.Second, 10)
	now := time.Now()
	for i := 0; i < 10; i++ {
		l.Admit("client-a", now)
	}
	if l.Admit("client-a", now.Add(30*time.Second)) {
		t.Fatal("request inside the window should be rejected")
	}
	if !l.Admit("client-a", now.Add(61*time.Second)) {
		t.Error("request after the window expired should be admitted")
	}
}

func TestLimiter_RejectionsNotRecorded(t *testing.T) {
	l := NewLimiter(60*time.Second, 2)
	now := time.Now()
	l.Admit("client-a", now)
	l.Admit("client-a", now)
	// Hammer the closed window; none of these must extend the lockout.
	for i := 0; i < 5; i++ {
		if l.Admit("client-a", now.Add(time.Duration(i)*time.Second)) {
			t.Fatal("over-quota request should be rejected")
		}
	}
	if !l.Admit("client-a", now.Add(61*time.Second)) {
		t.Error("only admitted requests should count against the window")
	}
}

func TestLimiter_ClientsIsolated(t *testing.T) {
	l := NewLimiter(60*time.Second, 1)
	now := time.Now()
	if !l.Admit("client-a", now) {
		t.Fatal("first request should be admitted")
	}
	if l.Admit("client-a", now) {
		t.Fatal("client-a should be over quota")
	}
	if !l.Admit("client-b", now) {
		t.Error("client-b has its own window")
	}
}

func TestLimiter_PruneIdle(t *testing.T) {
	l := NewLimiter(60*time.Second, 10)
	now := time.Now()
	l.Admit("client-a", now)
	l.Admit("client-b", now.Add(50*time.Second))
	if l.Size() != 2 {
		t.Fatalf("Size = %d, want 2", l.Size())
	}
	l.PruneIdle(now.Add(70 * time.Second))
	if l.Size() != 1 {
		t.Errorf("Size after prune = %d, want 1", l.Size())
	}
	if !l.Admit("client-a", now.Add(70*time.Second)) {
		t.Error("pruned client should be admitted fresh")
	}
}

func TestLimiter_DefaultsApplied(t *testing.T) {
	l := NewLimiter(0, 0)
	if l.window != DefaultWindow || l.max != DefaultMaxRequests {
		t.Errorf("defaults not applied: window=%v max=%d", l.window, l.max)
	}
}
