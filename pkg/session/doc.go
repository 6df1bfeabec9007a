// Package session orchestrates safe access to persisted trip sessions,
// combining per-session locking with the snapshot store.
package session
