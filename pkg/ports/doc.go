/*
Package ports defines the boundary interfaces of the Itinera core.

The engine consumes catalog data, persists session snapshots and emits
user-facing messages exclusively through these contracts, so adapters
(memory, Redis, HTTP, CLI) can be swapped without touching the core.
*/
package ports
