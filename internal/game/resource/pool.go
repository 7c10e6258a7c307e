// Package resource implements the per-player resource economy: a pool that
// refills to its maximum at the start of each of the owner's turns and is
// spent on recruits, equipment, healing and reactions.
package resource

// Pool holds a player's spendable resources. The invariant
// 0 <= Current() <= Max() holds after every call.
type Pool struct {
	current int
	max     int
}

// NewPool creates a full pool with the given maximum. Negative maxima clamp
// to zero.
func NewPool(max int) *Pool {
	if max < 0 {
		max = 0
	}
	return &Pool{current: max, max: max}
}

// Current returns the spendable amount.
func (p *Pool) Current() int {
	return p.current
}

// Max returns the refill target.
func (p *Pool) Max() int {
	return p.max
}

// CanPay reports whether cost can be spent right now.
func (p *Pool) CanPay(cost int) bool {
	return cost >= 0 && p.current >= cost
}

// Spend removes cost from the pool. It returns false and leaves the pool
// untouched when cost is negative or unaffordable.
func (p *Pool) Spend(cost int) bool {
	if !p.CanPay(cost) {
		return false
	}
	p.current -= cost
	return true
}

// Refill resets the pool to its maximum and returns the amount made
// available.
func (p *Pool) Refill() int {
	p.current = p.max
	return p.current
}

// SetMax changes the refill target and clamps the current amount into range.
func (p *Pool) SetMax(max int) {
	if max < 0 {
		max = 0
	}
	p.max = max
	if p.current > max {
		p.current = max
	}
}

// Set overwrites the current amount, clamped into [0, Max()].
func (p *Pool) Set(amount int) {
	switch {
	case amount < 0:
		p.current = 0
	case amount > p.max:
		p.current = p.max
	default:
		p.current = amount
	}
}
