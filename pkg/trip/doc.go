/*
Package trip exposes the Trip aggregate: the fixed action set that is the
only legal way to mutate a session's itinerary state.

Every action is total: it either applies fully or leaves the state
untouched. Day-budget validation is the caller's job (pkg/rules), so the
actions themselves never fail on budget grounds.
*/
package trip
