package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type durationStep struct{}

func (s *durationStep) ID() string { return StepDuration }

func (s *durationStep) Enter(ctx context.Context, fc *Context) error {
	fc.Say(StepDuration, "How many days does your trip last? (minimum 2 — arrival and departure included)")
	fc.Say(StepDuration, "You can also tell me how many of you are travelling, e.g. \"8 for 2\".")
	return nil
}

func (s *durationStep) Respond(ctx context.Context, fc *Context, input string) (string, error) {
	days, travellers, ok := parseDuration(input)
	if !ok {
		fc.Notify("I didn't catch a number of days there.")
		fc.Say(StepDuration, "Tell me the trip length as a number, like \"8\".")
		return "", nil
	}

	if err := fc.Trip.SetTotalDays(days); err != nil {
		fc.Notify(err.Error())
		fc.Say(StepDuration, "A trip needs at least 2 days. How many should I plan for?")
		return "", nil
	}
	if travellers > 0 {
		fc.Trip.SetTravellers(travellers)
	}

	fc.Answers["total_days"] = days
	fc.Answers["travellers"] = fc.Trip.State().Travellers
	fc.Say(StepDuration, fmt.Sprintf("Great, %d days it is. Let's pick where you're headed.", days))
	return StepZones, nil
}

func (s *durationStep) Next(fc *Context) string {
	if fc.Trip.State().TotalDays == 0 {
		return StepDuration
	}
	return ""
}

// parseDuration accepts "8", "8 for 2" or "8 2".
func parseDuration(input string) (days, travellers int, ok bool) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	var nums []int
	for _, f := range fields {
		if n, err := strconv.Atoi(f); err == nil {
			nums = append(nums, n)
		}
	}
	switch len(nums) {
	case 0:
		return 0, 0, false
	case 1:
		return nums[0], 0, true
	default:
		return nums[0], nums[1], true
	}
}
