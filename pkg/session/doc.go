/*
Package session implements the per-user session directory.

Sessions are process-lifetime only: created on a user's first event,
replaced on every transition, never evicted. Same-user access is
serialized locally, and optionally across replicas via a distributed
locker, resolving the read-modify-write race a shared directory would
otherwise have.
*/
package session
