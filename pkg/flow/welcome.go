package flow

import (
	"context"
	"strings"
)

type welcomeStep struct{}

func (s *welcomeStep) ID() string { return StepWelcome }

func (s *welcomeStep) Enter(ctx context.Context, fc *Context) error {
	fc.Say(StepWelcome, "Hi! I'm your trip planner. We'll build your itinerary together, one day at a time.")
	if fc.Trip.State().TotalDays > 0 {
		fc.Say(StepWelcome, "Welcome back — I still have your trip on file. Say anything to continue.")
	} else {
		fc.Say(StepWelcome, "Say anything to get started.")
	}
	return nil
}

func (s *welcomeStep) Respond(ctx context.Context, fc *Context, input string) (string, error) {
	_ = strings.TrimSpace(input)
	// Duration is skippable when the trip length is already known.
	if fc.Trip.State().TotalDays > 0 {
		return StepZones, nil
	}
	return StepDuration, nil
}

func (s *welcomeStep) Next(fc *Context) string { return "" }
