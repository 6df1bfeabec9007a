/*
Package rules implements the allocation rule set for itinerary day-blocks.

Every function here is pure: plain data in, plain data out, no panics and no
errors. Validation outcomes are structured results the caller branches on.
The trip package builds its action set on top of these rules.
*/
package rules
