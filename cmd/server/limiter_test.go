package main

import "testing"

func TestConnectionLimiter(t *testing.T) {
	l := newConnectionLimiter(2)

	for i := 1; i <= 2; i++ {
		if n, ok := l.acquire("10.0.0.1"); !ok || n != i {
			t.Fatalf("acquire %d = %d, %v", i, n, ok)
		}
	}
	if n, ok := l.acquire("10.0.0.1"); ok || n != 3 {
		t.Errorf("third acquire = %d, %v", n, ok)
	}
	if _, ok := l.acquire("10.0.0.2"); !ok {
		t.Error("limit leaked across addresses")
	}

	if left := l.release("10.0.0.1"); left != 1 {
		t.Errorf("after release = %d", left)
	}
	if _, ok := l.acquire("10.0.0.1"); !ok {
		t.Error("slot not freed")
	}

	l.release("10.0.0.2")
	if _, found := l.counts["10.0.0.2"]; found {
		t.Error("empty address not forgotten")
	}
}
