// README: Pipeline runs the price branch and the driver branch for one shipment request.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"freight/internal/modules/matching"
	"freight/internal/modules/pricing"
	"freight/internal/platform/obs"
	"freight/internal/reference"
	"freight/internal/translit"
	"freight/internal/types"
)

type Pricer interface {
	Encode(ctx context.Context, from, to string) (pricing.Direction, error)
	Price(ctx context.Context, dir pricing.Direction) (pricing.Quote, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, place string) (types.Point, error)
}

type Matcher interface {
	FindBestDrivers(ctx context.Context, origin types.Point, req matching.Capacity) ([]matching.RankedCandidate, error)
}

type Pipeline struct {
	pricer    Pricer
	geocoder  Geocoder
	matcher   Matcher
	normalize func(string) string
}

func New(pricer Pricer, geocoder Geocoder, matcher Matcher) *Pipeline {
	return &Pipeline{
		pricer:    pricer,
		geocoder:  geocoder,
		matcher:   matcher,
		normalize: translit.Normalize,
	}
}

type Result struct {
	Origin      string
	Destination string
	Quote       pricing.Quote
	Drivers     []matching.RankedCandidate
}

// Run parses raw, then prices the normalized direction and shortlists drivers
// near the origin concurrently. When both branches fail the price branch
// error is returned. No partial result accompanies an error.
func (p *Pipeline) Run(ctx context.Context, raw RawRequest) (res Result, err error) {
	defer obs.Time(ctx, "pipeline.run")(&err)
	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, unexpected(r)
		}
	}()

	req, err := Parse(raw)
	if err != nil {
		return Result{}, err
	}

	var (
		g         errgroup.Group
		quote     pricing.Quote
		dir       pricing.Direction
		drivers   []matching.RankedCandidate
		priceErr  error
		driverErr error
	)
	g.Go(guard(func() error {
		dir, quote, priceErr = p.priceBranch(ctx, req)
		return priceErr
	}, &priceErr))
	g.Go(guard(func() error {
		drivers, driverErr = p.driverBranch(ctx, req)
		return driverErr
	}, &driverErr))
	_ = g.Wait()

	if priceErr != nil {
		return Result{}, priceErr
	}
	if driverErr != nil {
		return Result{}, driverErr
	}
	return Result{
		Origin:      dir.From,
		Destination: dir.To,
		Quote:       quote,
		Drivers:     drivers,
	}, nil
}

func (p *Pipeline) priceBranch(ctx context.Context, req Request) (pricing.Direction, pricing.Quote, error) {
	from, to, err := p.normalizeNames(req.Origin, req.Destination)
	if err != nil {
		return pricing.Direction{}, pricing.Quote{}, err
	}

	dir, err := p.pricer.Encode(ctx, from, to)
	switch {
	case err == nil:
	case errors.Is(err, pricing.ErrUnknownCategory):
		return dir, pricing.Quote{}, fail(StageEncodeNames, ErrUnknownCategory, msgUnknownCategory, err)
	default:
		return dir, pricing.Quote{}, failf(StageEncodeNames, ErrReferenceDataUnavailable, "Reference data unavailable", err)
	}

	quote, err := p.pricer.Price(ctx, dir)
	if err != nil {
		return dir, pricing.Quote{}, failf(StagePredictPrice, ErrPredictionFailure, "Price prediction failed", err)
	}
	return dir, quote, nil
}

func (p *Pipeline) normalizeNames(origin, destination string) (from, to string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = failf(StageNormalizeNames, ErrTransliterationFailure, "Transliteration failed", fmt.Errorf("%v", r))
		}
	}()
	return p.normalize(origin), p.normalize(destination), nil
}

// driverBranch geocodes the origin as the client sent it; the provider
// handles Latin spellings itself.
func (p *Pipeline) driverBranch(ctx context.Context, req Request) ([]matching.RankedCandidate, error) {
	origin, err := p.geocoder.Geocode(ctx, req.Origin)
	if err != nil {
		return nil, fail(StageGeocode, ErrGeocodeNotFound, msgGeocodeNotFound, err)
	}

	drivers, err := p.matcher.FindBestDrivers(ctx, origin, matching.Capacity{Weight: req.Weight, Volume: req.Volume})
	switch {
	case err == nil:
		return drivers, nil
	case errors.Is(err, reference.ErrUnavailable):
		return nil, failf(StageClusterAndRank, ErrReferenceDataUnavailable, "Reference data unavailable", err)
	default:
		return nil, failf(StageClusterAndRank, ErrDriverSelectionFailure, "Driver selection failed", err)
	}
}

// guard turns a panic inside a branch goroutine into an unexpected failure
// stored in *errp.
func guard(fn func() error, errp *error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = unexpected(r)
				*errp = err
			}
		}()
		return fn()
	}
}

// unexpected failures have no owning stage and are reported against Respond.
func unexpected(r interface{}) error {
	log.Printf("pipeline: panic: %v\n%s", r, debug.Stack())
	return failf(StageRespond, ErrUnexpectedFailure, "Unexpected server error", fmt.Errorf("%v", r))
}
