package assistant

import (
	"fmt"
	"math"
	"strings"

	"ride-booking/internal/models"
)

const promptForEndpoints = `Where should I pick you up, and where are you going? For example: "from Colombo to Kandy".`

// replyBuilder accumulates sentences for one turn.
type replyBuilder struct {
	parts []string
}

func (b *replyBuilder) add(format string, args ...any) {
	b.parts = append(b.parts, fmt.Sprintf(format, args...))
}

func (b *replyBuilder) String() string {
	if len(b.parts) == 0 {
		return "How can I help with your ride?"
	}
	return strings.Join(b.parts, " ")
}

func (b *replyBuilder) locations(res models.HandleResult) {
	switch {
	case res.Pickup != nil && res.Dropoff != nil:
		b.add("Got it: from %s to %s.", res.Pickup.Text, res.Dropoff.Text)
	case res.Pickup != nil:
		b.add("Pickup set to %s.", res.Pickup.Text)
	case res.Dropoff != nil:
		b.add("Dropoff set to %s.", res.Dropoff.Text)
	}
}

func (b *replyBuilder) geocodeFailures(failed []failedEndpoint) {
	for _, f := range failed {
		b.add("I couldn't find the %s location %q. Could you give a nearby town or landmark?", f.role, f.phrase)
	}
}

func (b *replyBuilder) missing(pickup, dropoff *models.Location) {
	switch {
	case pickup == nil && dropoff == nil:
		b.add(promptForEndpoints)
	case pickup == nil:
		b.add("Where should I pick you up?")
	case dropoff == nil:
		b.add("Where are you heading?")
	}
}

func (b *replyBuilder) route(r models.Route) {
	b.add("The trip is %.1f km and takes about %s.", r.Distance, formatMinutes(r.Duration))
}

func (b *replyBuilder) quotes(quotes []models.VehicleQuote, relaxed bool) {
	if len(quotes) == 0 {
		b.add("Sorry, no vehicles are available right now.")
		return
	}
	if relaxed {
		b.add("No vehicle matches all of your preferences, so here are the best available options.")
	}
	noun := "options"
	if len(quotes) == 1 {
		noun = "option"
	}
	best := quotes[0]
	b.add("I found %d vehicle %s. The cheapest is the %s (%s) at %.2f, about %d min away.",
		len(quotes), noun, best.Name, best.Type, best.EstimatedPrice, best.ETA)
}

func formatMinutes(m float64) string {
	total := int(math.Round(m))
	if total < 60 {
		return fmt.Sprintf("%d min", total)
	}
	h, rest := total/60, total%60
	if rest == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, rest)
}
