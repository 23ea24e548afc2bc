// Package redis provides a Redis-backed session store and distributed locker
// for running several replicas of the assistant behind one load balancer.
package redis
