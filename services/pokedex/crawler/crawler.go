// Package crawler walks the circular pokedex page sequence and fills
// the intermediate store.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pokedex-backend/lib/scrapers/pokedex"
	"pokedex-backend/services/pokedex/store"

	"github.com/PuerkitoBio/purell"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/pokedex/crawler")

type Scraper interface {
	Scrape(ctx context.Context, pageUrl string) (pokedex.Result, error)
}

type Options struct {
	// the first page of the crawl, the crawl ends when the next link
	// cycles back to it
	Start string
	// hard bound on pages visited, a corrupted next link must not
	// turn the cycle into an endless walk
	MaxPages int
	// upper bound on the randomized pause before each fetch, purely a
	// courtesy to the server. zero disables the pause.
	MaxDelay time.Duration
}

const (
	DefaultStart    = pokedex.UrlPrefix + "bulbasaur"
	DefaultMaxPages = 2048
	DefaultMaxDelay = time.Second
)

type Crawler struct {
	scraper Scraper
	store   *store.Store
	opts    Options
}

func New(scraper Scraper, st *store.Store, opts Options) Crawler {
	if opts.Start == "" {
		opts.Start = DefaultStart
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	return Crawler{
		scraper: scraper,
		store:   st,
		opts:    opts,
	}
}

var normalizeFlags = purell.FlagsUsuallySafeGreedy | purell.FlagRemoveFragment | purell.FlagSortQuery

// Run scrapes pages one at a time, strictly sequentially, following
// each page's next link until it resolves back to the start page. Any
// failure halts the crawl, nothing is retried.
func (c Crawler) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(attribute.String("start", c.opts.Start))

	start, err := purell.NormalizeURLString(c.opts.Start, normalizeFlags)
	if err != nil {
		return fmt.Errorf("bad start url %q: %w", c.opts.Start, err)
	}

	current := c.opts.Start
	for visited := 0; ; visited++ {
		if visited >= c.opts.MaxPages {
			err := fmt.Errorf(
				"visited %d pages without cycling back to %s, next links are likely corrupted",
				visited, c.opts.Start,
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "page bound exceeded")
			return err
		}

		if err := c.pause(ctx); err != nil {
			return err
		}

		res, err := c.scraper.Scrape(ctx, current)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "scrape failed")
			return fmt.Errorf("scrape %s: %w", current, err)
		}
		slog.InfoContext(ctx, "scraped page",
			"number", res.Pokemon.Number,
			"name", res.Pokemon.Name,
		)

		if err := c.store.PutPokemon(res.Pokemon); err != nil {
			return fmt.Errorf("store %s: %w", res.Pokemon.Name, err)
		}
		for _, ability := range res.Abilities {
			written, err := c.store.PutAbility(ability)
			if err != nil {
				return fmt.Errorf("store ability %s: %w", ability.Name, err)
			}
			if !written {
				slog.DebugContext(ctx, "ability already known", "ability", ability.Name)
			}
		}

		next, err := purell.NormalizeURLString(res.NextUrl, normalizeFlags)
		if err != nil {
			return fmt.Errorf("bad next url %q: %w", res.NextUrl, err)
		}
		if next == start {
			slog.InfoContext(ctx, "crawl cycled back to start", "pages", visited+1)
			return nil
		}
		current = res.NextUrl
	}
}

func (c Crawler) pause(ctx context.Context) error {
	if c.opts.MaxDelay <= 0 {
		return nil
	}
	ms, err := random.IntRange(0, int(c.opts.MaxDelay/time.Millisecond))
	if err != nil {
		return err
	}
	select {
	case <-time.After(time.Duration(ms) * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
