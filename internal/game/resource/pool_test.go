package resource

import (
	"testing"
)

func TestPool_StartsFull(t *testing.T) {
	pool := NewPool(5)
	if pool.Current() != 5 || pool.Max() != 5 {
		t.Errorf("Expected 5/5, got %d/%d", pool.Current(), pool.Max())
	}
}

func TestPool_Spend(t *testing.T) {
	pool := NewPool(5)

	if !pool.Spend(3) {
		t.Error("Expected to spend 3")
	}
	if pool.Current() != 2 {
		t.Errorf("Expected 2 remaining, got %d", pool.Current())
	}

	if pool.Spend(3) {
		t.Error("Expected to fail spending 3 when only 2 available")
	}
	if pool.Current() != 2 {
		t.Errorf("Failed spend must not change the pool, got %d", pool.Current())
	}

	if pool.Spend(-1) {
		t.Error("Negative cost must be rejected")
	}

	if !pool.Spend(0) {
		t.Error("Zero cost is always payable")
	}
}

func TestPool_Refill(t *testing.T) {
	pool := NewPool(5)
	pool.Spend(5)
	if got := pool.Refill(); got != 5 {
		t.Errorf("Expected refill to 5, got %d", got)
	}
}

func TestPool_Bounds(t *testing.T) {
	pool := NewPool(4)
	pool.Set(10)
	if pool.Current() != 4 {
		t.Errorf("Expected clamp to 4, got %d", pool.Current())
	}
	pool.Set(-2)
	if pool.Current() != 0 {
		t.Errorf("Expected clamp to 0, got %d", pool.Current())
	}

	pool.Refill()
	pool.SetMax(2)
	if pool.Current() != 2 || pool.Max() != 2 {
		t.Errorf("Expected 2/2 after lowering max, got %d/%d", pool.Current(), pool.Max())
	}

	if NewPool(-3).Max() != 0 {
		t.Error("Negative max must clamp to zero")
	}
}
