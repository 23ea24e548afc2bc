/*
Package session implements session management and persistence orchestration.

It serializes access to one interview at a time: every read-modify-write of a
session state happens under a per-session lock (and, across replicas, an
optional distributed lock), so concurrent messages for the same session never
lose updates while different sessions proceed in parallel.
*/
package session
