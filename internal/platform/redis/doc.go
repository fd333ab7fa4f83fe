// Package redis connects to Redis and implements a sliding window rate
// limiter on top of it. The limiter keeps one sorted set per key; every
// admitted request adds a member scored by its arrival time in milliseconds,
// and members older than the window are pruned before each decision.
package redis
