/*
Package domain contains the core domain model for the Itinera engine.

It defines the fundamental entities of an itinerary session: day Blocks,
Zone selections, the TripState aggregate data, hotel picks, the versioned
Snapshot schema and the lifecycle events emitted while a session runs.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Block: one day-unit of the itinerary with a type and optional experience payload.
  - Zone: a geographic area of the trip; may be a true stop or a transit-only waypoint.
  - TripState: the runtime snapshot of a session (days, zones, blocks, hotels).
  - Snapshot: the durable, versioned serialization of a session.
*/
package domain
