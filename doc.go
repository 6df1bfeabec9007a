/*
Package itinera is a conversational travel-itinerary builder.

A session walks a traveller through a fixed wizard: welcome, trip length,
zone selection, an experience-picking loop per zone, a mid-flight summary,
a lodging loop, and the final summary. The trip itself is a pure aggregate
of day blocks with strict contiguity rules; the conversation only mutates
it through a small action set, so every invariant holds no matter which
path the dialogue takes.

The top-level Engine wires one session end to end:

	catalog := memory.NewCatalog()
	eng, err := itinera.New("session-1", catalog)
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	eng.Start(ctx)
	eng.Input(ctx, "8 for 2")

Messages staged by the steps land on an ordered log (optionally behind a
typing-cadence scheduler); frontends render from the log, never from the
steps directly. Sessions serialize to versioned snapshots for persistence;
see the session package for the store-backed manager.
*/
package itinera
