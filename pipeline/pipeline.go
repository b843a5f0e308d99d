// Package pipeline sequences the full run: places search, per-place address
// parsing, phone lookup, registry cross-reference and row assembly.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"buscacnpj/matching"
	"buscacnpj/places"
	"buscacnpj/registry"
	"buscacnpj/report"
)

// maxPlaces caps how many places one run processes, regardless of how many
// the search returned.
const maxPlaces = 3

// placePacing is the courtesy delay after fully processing each place.
const placePacing = 200 * time.Millisecond

// PlacesAPI is the slice of the Places client the pipeline uses.
type PlacesAPI interface {
	FetchPlaces(ctx context.Context, query string) ([]places.Place, error)
	FetchPhone(ctx context.Context, placeID string) (string, error)
}

// RegistryAPI is the slice of the registry client the pipeline uses.
type RegistryAPI interface {
	SearchOffices(ctx context.Context, cepDigits, streetNumber string) ([]registry.Office, error)
}

// Pipeline runs the search-and-cross-reference flow. Execution is strictly
// sequential: one request in flight at a time, pacing delays between
// places.
type Pipeline struct {
	places   PlacesAPI
	registry RegistryAPI
	resolver *matching.Resolver
	logger   *slog.Logger

	maxPlaces int
	pacing    time.Duration
}

// Result is the aggregated output of one run.
type Result struct {
	Rows []report.Row
	// Filename is the deterministic workbook name derived from the query.
	Filename string
}

// New creates a pipeline over the given API clients. logger may be nil.
func New(placesAPI PlacesAPI, registryAPI RegistryAPI, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		places:    placesAPI,
		registry:  registryAPI,
		resolver:  matching.NewResolver(),
		logger:    logger,
		maxPlaces: maxPlaces,
		pacing:    placePacing,
	}
}

// Run searches for businesses of the given type in the given city and
// cross-references each against the company registry. A failed places
// search aborts the run; a failed registry lookup only downgrades that one
// place to "no matches". Rows for already-processed places are never rolled
// back.
func (p *Pipeline) Run(ctx context.Context, tipo, cidade string) (*Result, error) {
	result := &Result{Filename: report.Filename(tipo, cidade)}

	query := fmt.Sprintf("%s em %s", tipo, cidade)
	found, err := p.places.FetchPlaces(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return result, nil
	}

	if len(found) > p.maxPlaces {
		found = found[:p.maxPlaces]
	}

	for _, place := range found {
		rows, err := p.processPlace(ctx, place)
		if err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, rows...)

		if err := sleepCtx(ctx, p.pacing); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// processPlace handles a single place: address parsing, phone lookup,
// registry matching and row assembly.
func (p *Pipeline) processPlace(ctx context.Context, place places.Place) ([]report.Row, error) {
	addr := ParseAddress(place.Address)

	phone, err := p.places.FetchPhone(ctx, place.ID)
	if err != nil {
		return nil, err
	}

	p.logger.Info("processando local",
		"nome", place.Name,
		"endereco", place.Address,
		"numero", addr.StreetNumber,
		"cep", addr.PostalDigits,
		"telefone", phone)

	var matches []registry.Office
	if addr.Complete() {
		// The registry lookup is the one per-place failure boundary: an
		// upstream error here degrades this place to "no matches" and the
		// run continues.
		offices, err := p.registry.SearchOffices(ctx, addr.PostalDigits, addr.StreetNumber)
		if err != nil {
			p.logger.Warn("falha na chamada de API CNPJA", "erro", err, "local", place.Name)
		} else {
			matches = p.resolver.Resolve(offices, place.Name, phone)
		}
	} else {
		p.logger.Info("CNPJ nao encontrado", "motivo", "CEP/numero incompleto", "local", place.Name)
	}

	return report.RowsForPlace(place, addr.StreetNumber, addr.PostalDigits, addr.RawPostal, phone, matches), nil
}

// sleepCtx pauses for d, returning early if the run is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
