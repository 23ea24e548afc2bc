/*
Package ports defines the driven ports (interfaces) of the admission assistant.

These interfaces decouple the interview core from external implementations,
allowing sessions to live in process memory or in Redis.

# Key Interfaces

  - SessionStore: persists and loads interview State per session.
  - DistributedLocker: serializes access to one session across replicas.
*/
package ports
