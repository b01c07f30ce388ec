package circuitbreaker

import (
	"testing"
	"time"
)

func TestBreakerOpensAtThreshold(t *testing.T) {
	b := New(3, time.Minute)

	if !b.Allow() {
		t.Fatal("new breaker should allow requests")
	}

	b.RecordFailure()
	b.RecordFailure()
	if b.State() != StateClosed {
		t.Errorf("breaker opened before threshold")
	}

	b.RecordFailure()
	if b.State() != StateOpen {
		t.Errorf("breaker should open at threshold, got %v", b.State())
	}
	if b.Allow() {
		t.Errorf("open breaker should reject requests")
	}
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b := New(1, 10*time.Millisecond)

	b.RecordFailure()
	if b.State() != StateOpen {
		t.Fatalf("breaker should be open")
	}

	time.Sleep(20 * time.Millisecond)

	if !b.Allow() {
		t.Fatal("breaker should admit a probe after open duration")
	}
	if b.State() != StateHalfOpen {
		t.Errorf("breaker should be half-open, got %v", b.State())
	}
	if b.Allow() {
		t.Errorf("only one probe should be admitted while half-open")
	}
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	b := New(1, 10*time.Millisecond)
	b.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	b.Allow() // half-open

	b.RecordFailure()
	if b.State() != StateOpen {
		t.Errorf("failed probe should reopen the circuit, got %v", b.State())
	}
}

func TestBreakerClosesOnSuccess(t *testing.T) {
	b := New(1, 10*time.Millisecond)
	b.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	b.Allow() // half-open

	b.RecordSuccess()
	if b.State() != StateClosed {
		t.Errorf("successful probe should close the circuit, got %v", b.State())
	}
	if !b.Allow() {
		t.Errorf("closed breaker should allow requests")
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := New(3, time.Minute)
	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	if b.State() != StateClosed {
		t.Errorf("failure count should reset on success")
	}
}

func TestStateString(t *testing.T) {
	if StateClosed.String() != "closed" || StateOpen.String() != "open" || StateHalfOpen.String() != "half_open" {
		t.Errorf("state names wrong: %s %s %s", StateClosed, StateOpen, StateHalfOpen)
	}
}
