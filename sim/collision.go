package sim

import (
	"fmt"
	"math"
)

// CollisionProbability estimates the probability that a station in a group
// of k stations shares its contention slot with at least one other station:
//
//	c = 1 - (1 - p)^(k-1)
//
// where p is the per-slot access probability, assuming independent uniform
// slot selection. k <= 1 means no contention and returns 0. With p == 1 (a
// single slot) and k >= 2 the result is exactly 1.
//
// Panics if k < 0 or p is outside (0, 1]: both are caller bugs.
func CollisionProbability(k int, p float64) float64 {
	if k < 0 {
		panic(fmt.Sprintf("CollisionProbability: negative group size %d", k))
	}
	if math.IsNaN(p) || p <= 0 || p > 1 {
		panic(fmt.Sprintf("CollisionProbability: access probability %v outside (0, 1]", p))
	}
	if k <= 1 {
		return 0
	}
	return 1 - math.Pow(1-p, float64(k-1))
}

// SuccessProbability is 1 - CollisionProbability(k, p).
func SuccessProbability(k int, p float64) float64 {
	return 1 - CollisionProbability(k, p)
}
