package assistant

import (
	"context"
	"log/slog"
	"time"

	"ride-booking/internal/logger"
	"ride-booking/internal/models"
	"ride-booking/internal/modules/fleet"
	"ride-booking/internal/modules/location"

	"golang.org/x/sync/errgroup"
)

// Geocoder resolves a place phrase.
type Geocoder interface {
	Geocode(ctx context.Context, text string) (models.Location, error)
}

// Router computes the route between two resolved locations.
type Router interface {
	Route(ctx context.Context, pickup, dropoff models.Location) (models.Route, error)
}

// VehicleLister reads the current fleet snapshot.
type VehicleLister interface {
	ListAvailable(ctx context.Context) ([]models.Vehicle, error)
}

// Options tunes an Orchestrator. Zero values pick the defaults.
type Options struct {
	// Timeout bounds each collaborator call. Default 10s.
	Timeout time.Duration
	// ETAMinutes is the dispatch delay put on every quote. Default 5.
	ETAMinutes int
	Extractor  Extractor
	Logger     *slog.Logger
}

// Orchestrator turns one utterance plus the known booking context into a reply
// and the facts resolved during that turn. It keeps no state between calls.
type Orchestrator struct {
	geocoder  Geocoder
	router    Router
	vehicles  VehicleLister
	extractor Extractor
	timeout   time.Duration
	eta       int
	log       *slog.Logger
}

func New(geocoder Geocoder, router Router, vehicles VehicleLister, opts Options) *Orchestrator {
	o := &Orchestrator{
		geocoder:  geocoder,
		router:    router,
		vehicles:  vehicles,
		extractor: opts.Extractor,
		timeout:   opts.Timeout,
		eta:       opts.ETAMinutes,
		log:       opts.Logger,
	}
	if o.extractor == nil {
		o.extractor = PatternExtractor{}
	}
	if o.timeout <= 0 {
		o.timeout = 10 * time.Second
	}
	if o.eta <= 0 {
		o.eta = 5
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	return o
}

type failedEndpoint struct {
	role   string
	phrase string
}

// Handle runs one turn. It never fails: collaborator errors become a reply
// explaining what is missing and NeedsMoreInfo is set.
func (o *Orchestrator) Handle(ctx context.Context, utterance string, bc models.BookingContext) models.HandleResult {
	var (
		res   models.HandleResult
		reply replyBuilder
	)
	defer func() {
		logger.Info(ctx, o.log, "assistant.handle", "turn handled",
			"new_pickup", res.Pickup != nil, "new_dropoff", res.Dropoff != nil,
			"new_route", res.Route != nil, "quotes", len(res.Vehicles),
			"needs_more_info", res.NeedsMoreInfo)
	}()

	pickup, dropoff := knownLocation(bc.Pickup), knownLocation(bc.Dropoff)
	ex := o.extractor.Extract(utterance)
	stated := parseConstraints(utterance, nil)

	if ex.Empty() && pickup == nil && dropoff == nil {
		res.Constraints = nonEmpty(stated)
		res.Reply = promptForEndpoints
		res.NeedsMoreInfo = true
		return res
	}

	newPickup, newDropoff, failed := o.resolve(ctx, ex, [2]*models.Location{pickup, dropoff})
	if newPickup != nil {
		pickup, res.Pickup = newPickup, newPickup
	}
	if newDropoff != nil {
		dropoff, res.Dropoff = newDropoff, newDropoff
	}
	reply.locations(res)

	if len(failed) > 0 {
		reply.geocodeFailures(failed)
		res.Constraints = nonEmpty(stated)
		res.Reply = reply.String()
		res.NeedsMoreInfo = true
		return res
	}
	if pickup == nil || dropoff == nil {
		reply.missing(pickup, dropoff)
		res.Constraints = nonEmpty(stated)
		return o.finish(res, &reply)
	}

	route := bc.Route
	if route == nil || !route.Valid() || res.Pickup != nil || res.Dropoff != nil {
		r, err := o.route(ctx, *pickup, *dropoff)
		if err != nil {
			logger.Warn(ctx, o.log, "assistant.route", "routing failed", "error", err.Error())
			reply.add("I couldn't calculate a route from %s to %s right now. Please try again in a moment.",
				pickup.Text, dropoff.Text)
			res.Constraints = nonEmpty(stated)
			return o.finish(res, &reply)
		}
		route, res.Route = &r, &r
		reply.route(r)
	}

	available, err := o.listAvailable(ctx)
	if err != nil {
		logger.Error(ctx, o.log, "assistant.vehicles", "listing vehicles failed", err)
		reply.add("I couldn't load the available vehicles right now. Please try again in a moment.")
		res.Constraints = nonEmpty(stated)
		return o.finish(res, &reply)
	}

	stated = parseConstraints(utterance, featureVocabulary(available))
	res.Constraints = nonEmpty(stated)
	wanted := stated
	if bc.Constraints != nil {
		wanted = bc.Constraints.Merge(stated)
	}

	quotes := fleet.Recommend(available, wanted, route.Distance, o.eta)
	if len(quotes) > 0 {
		res.Vehicles = quotes
	}
	reply.quotes(quotes, !wanted.Empty() && !anyMatch(available, wanted))
	return o.finish(res, &reply)
}

func (o *Orchestrator) finish(res models.HandleResult, reply *replyBuilder) models.HandleResult {
	res.Reply = reply.String()
	res.NeedsMoreInfo = res.Pickup == nil && res.Dropoff == nil && res.Route == nil && len(res.Vehicles) == 0
	return res
}

// resolve geocodes the stated endpoints concurrently. A stated endpoint that lands
// within location.SamePlaceKm of the known one is not reported as new.
func (o *Orchestrator) resolve(ctx context.Context, ex Extraction, known [2]*models.Location) (pickup, dropoff *models.Location, failed []failedEndpoint) {
	phrases := [2]string{ex.Pickup, ex.Dropoff}
	roles := [2]string{"pickup", "dropoff"}
	var found [2]*models.Location
	var errs [2]error

	var g errgroup.Group
	for i := range phrases {
		if phrases[i] == "" {
			continue
		}
		g.Go(func() error {
			loc, err := o.geocode(ctx, phrases[i])
			if err != nil {
				errs[i] = err
				return nil
			}
			found[i] = &loc
			return nil
		})
	}
	_ = g.Wait()

	for i := range phrases {
		if errs[i] != nil {
			logger.Warn(ctx, o.log, "assistant.geocode", "geocoding failed",
				"endpoint", roles[i], "phrase", phrases[i], "error", errs[i].Error())
			failed = append(failed, failedEndpoint{role: roles[i], phrase: phrases[i]})
			continue
		}
		if found[i] == nil {
			continue
		}
		if known[i] != nil && location.SamePlace(*known[i], *found[i]) {
			found[i] = nil
		}
	}
	return found[0], found[1], failed
}

func (o *Orchestrator) geocode(ctx context.Context, phrase string) (models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return o.geocoder.Geocode(ctx, phrase)
}

func (o *Orchestrator) route(ctx context.Context, pickup, dropoff models.Location) (models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return o.router.Route(ctx, pickup, dropoff)
}

func (o *Orchestrator) listAvailable(ctx context.Context) ([]models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return o.vehicles.ListAvailable(ctx)
}

func knownLocation(l *models.Location) *models.Location {
	if l == nil || !l.Valid() {
		return nil
	}
	return l
}

func nonEmpty(c models.VehicleConstraints) *models.VehicleConstraints {
	if c.Empty() {
		return nil
	}
	return &c
}

func anyMatch(vehicles []models.Vehicle, c models.VehicleConstraints) bool {
	for _, v := range fleet.AvailableOnly(vehicles) {
		if fleet.Matches(v, c) {
			return true
		}
	}
	return false
}
