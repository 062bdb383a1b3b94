package crawler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pokedex-backend/lib/scrapers/pokedex"
	"pokedex-backend/services/pokedex/store"

	"github.com/stretchr/testify/require"
)

type fakeScraper struct {
	pages map[string]pokedex.Result
}

func (f fakeScraper) Scrape(ctx context.Context, pageUrl string) (pokedex.Result, error) {
	res, ok := f.pages[pageUrl]
	if !ok {
		return pokedex.Result{}, fmt.Errorf("no such page %q", pageUrl)
	}
	return res, nil
}

func page(name string, number int, next string) pokedex.Result {
	return pokedex.Result{
		Pokemon: pokedex.Pokemon{
			Name:   name,
			Number: number,
			Url:    pokedex.UrlPrefix + name,
			Formes: []pokedex.Forme{{Name: name}},
		},
		Abilities: []pokedex.Ability{
			{Name: "Overgrow", Description: "seen on " + name},
		},
		NextUrl: pokedex.UrlPrefix + next,
	}
}

func TestRunStopsAtCycle(t *testing.T) {
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	defer st.Close()

	scraper := fakeScraper{pages: map[string]pokedex.Result{
		pokedex.UrlPrefix + "bulbasaur": page("Bulbasaur", 1, "ivysaur"),
		pokedex.UrlPrefix + "ivysaur":   page("Ivysaur", 2, "venusaur"),
		pokedex.UrlPrefix + "venusaur":  page("Venusaur", 3, "bulbasaur"),
	}}

	c := New(scraper, st, Options{Start: pokedex.UrlPrefix + "bulbasaur"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	require.NoError(t, c.Run(ctx))

	var names []string
	err = st.ForEachPokemon(func(p pokedex.Pokemon) error {
		names = append(names, p.Name)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Bulbasaur", "Ivysaur", "Venusaur"}, names)

	// the ability repeats on every page, the first page's record wins
	var abilities []pokedex.Ability
	err = st.ForEachAbility(func(a pokedex.Ability) error {
		abilities = append(abilities, a)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []pokedex.Ability{
		{Name: "Overgrow", Description: "seen on Bulbasaur"},
	}, abilities)
}

func TestRunBoundsBrokenCycle(t *testing.T) {
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	defer st.Close()

	// venusaur points back at ivysaur, the start page is never
	// reached again
	scraper := fakeScraper{pages: map[string]pokedex.Result{
		pokedex.UrlPrefix + "bulbasaur": page("Bulbasaur", 1, "ivysaur"),
		pokedex.UrlPrefix + "ivysaur":   page("Ivysaur", 2, "venusaur"),
		pokedex.UrlPrefix + "venusaur":  page("Venusaur", 3, "ivysaur"),
	}}

	c := New(scraper, st, Options{
		Start:    pokedex.UrlPrefix + "bulbasaur",
		MaxPages: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	err = c.Run(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "10 pages")
}

func TestRunHaltsOnScrapeFailure(t *testing.T) {
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	defer st.Close()

	scraper := fakeScraper{pages: map[string]pokedex.Result{
		pokedex.UrlPrefix + "bulbasaur": page("Bulbasaur", 1, "missingno"),
	}}

	c := New(scraper, st, Options{Start: pokedex.UrlPrefix + "bulbasaur"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	err = c.Run(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missingno")
}
