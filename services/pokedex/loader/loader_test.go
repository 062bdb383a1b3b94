package loader

import (
	"context"
	"testing"
	"time"

	"pokedex-backend/lib/scrapers/pokedex"
	"pokedex-backend/lib/testutil"
	"pokedex-backend/services/pokedex/db"
	"pokedex-backend/services/pokedex/store"

	"github.com/stretchr/testify/require"
)

func simpleForme(name string) pokedex.Forme {
	return pokedex.Forme{
		Name:         name,
		Image:        "https://assets.pokemon.com/" + name + ".png",
		Descriptions: []string{"desc one", "desc two"},
		Types:        []string{"Grass", "Poison"},
		Height:       `2' 04"`,
		Weight:       "15.2 lbs",
		Category:     "Seed",
		Genders:      []string{"Male", "Female"},
		Abilities:    []string{"Overgrow"},
	}
}

func setup(t *testing.T) (*store.Store, *testutil.ServiceResult, func()) {
	st, err := store.OpenInMemory()
	require.NoError(t, err)

	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/pokedex/loader",
		DbSchema: db.Schema,
	})
	return st, &setup, func() {
		st.Close()
		cleanup()
	}
}

func TestLoad(t *testing.T) {
	st, setup, cleanup := setup(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	saurLine := pokedex.Lineage{
		"first":  {"Bulbasaur"},
		"middle": {"Ivysaur"},
		"last":   {"Venusaur"},
	}

	require.NoError(t, st.PutPokemon(pokedex.Pokemon{
		Name: "Bulbasaur", Number: 1,
		Formes:     []pokedex.Forme{simpleForme("Bulbasaur")},
		Evolutions: saurLine,
	}))
	require.NoError(t, st.PutPokemon(pokedex.Pokemon{
		Name: "Ivysaur", Number: 2,
		Formes:     []pokedex.Forme{simpleForme("Ivysaur")},
		Evolutions: saurLine,
	}))

	megaForme := simpleForme("Mega Venusaur")
	// both description slots hold the same text
	megaForme.Descriptions = []string{"its legs grew sturdy", "its legs grew sturdy"}
	megaForme.Types = []string{"Grass"}
	megaForme.Genders = []string{"Unknown"}
	megaForme.Abilities = []string{"Thick Fat"}
	require.NoError(t, st.PutPokemon(pokedex.Pokemon{
		Name: "Venusaur", Number: 3,
		Formes:     []pokedex.Forme{simpleForme("Venusaur"), megaForme},
		Evolutions: saurLine,
	}))

	require.NoError(t, st.PutPokemon(pokedex.Pokemon{
		Name: "Eevee", Number: 133,
		Formes:     []pokedex.Forme{simpleForme("Eevee")},
		Evolutions: pokedex.Lineage{"first": {"Eevee"}},
	}))

	_, err := st.PutAbility(pokedex.Ability{Name: "Overgrow", Description: "powers up grass moves"})
	require.NoError(t, err)
	_, err = st.PutAbility(pokedex.Ability{Name: "Thick Fat", Description: "ups resistance to fire and ice"})
	require.NoError(t, err)

	require.NoError(t, Load(ctx, setup.DB, st))
	qry := db.New(setup.DB)

	count, err := qry.CountPokemon(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, count)

	eevee, err := qry.GetPokemon(ctx, "Eevee")
	require.NoError(t, err)
	require.EqualValues(t, 133, eevee.Number)

	// three members of the line each repeat the same lineage, the
	// edge set still goes in exactly once
	evolutions, err := qry.ListEvolutions(ctx)
	require.NoError(t, err)
	require.Equal(t, []db.ListEvolutionsRow{
		{Pokemon: "Bulbasaur", EvolvesTo: "Ivysaur"},
		{Pokemon: "Ivysaur", EvolvesTo: "Venusaur"},
	}, evolutions)

	// identical descriptions collapse to a single row
	descriptions, err := qry.ListFormDescriptions(ctx, db.ListFormDescriptionsParams{
		Pokemon: "Venusaur",
		Form:    "Mega Venusaur",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"its legs grew sturdy"}, descriptions)

	descriptions, err = qry.ListFormDescriptions(ctx, db.ListFormDescriptionsParams{
		Pokemon: "Venusaur",
		Form:    "Venusaur",
	})
	require.NoError(t, err)
	require.Len(t, descriptions, 2)

	formes, err := qry.CountFormes(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 5, formes)

	formAbilities, err := qry.CountFormAbilities(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 5, formAbilities)
}

func TestLoadAbilityFirstSeenWins(t *testing.T) {
	st, setup, cleanup := setup(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	qry := db.New(setup.DB)
	require.NoError(t, qry.CreateAbility(ctx, db.CreateAbilityParams{
		Ability: "Overgrow",
		Info:    "the first description",
	}))

	_, err := st.PutAbility(pokedex.Ability{Name: "Overgrow", Description: "a later description"})
	require.NoError(t, err)

	require.NoError(t, Load(ctx, setup.DB, st))

	info, err := qry.GetAbilityInfo(ctx, "Overgrow")
	require.NoError(t, err)
	require.Equal(t, "the first description", info)

	count, err := qry.CountAbilities(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestLoadHaltsOnConstraintViolation(t *testing.T) {
	st, setup, cleanup := setup(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	// two records under different numbers but the same name collide
	// on the pokemon primary key
	require.NoError(t, st.PutPokemon(pokedex.Pokemon{
		Name: "Bulbasaur", Number: 1,
		Formes: []pokedex.Forme{simpleForme("Bulbasaur")},
	}))
	require.NoError(t, st.PutPokemon(pokedex.Pokemon{
		Name: "Bulbasaur", Number: 2,
		Formes: []pokedex.Forme{simpleForme("Bulbasaur")},
	}))

	err := Load(ctx, setup.DB, st)
	require.Error(t, err)

	// the failing record's rows were rolled back as a unit
	qry := db.New(setup.DB)
	count, err := qry.CountPokemon(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestLoadRejectsMalformedLineage(t *testing.T) {
	st, setup, cleanup := setup(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	require.NoError(t, st.PutPokemon(pokedex.Pokemon{
		Name: "Bulbasaur", Number: 1,
		Formes:     []pokedex.Forme{simpleForme("Bulbasaur")},
		Evolutions: pokedex.Lineage{"beyond": {"Missingno"}},
	}))

	err := Load(ctx, setup.DB, st)
	require.Error(t, err)
	require.Contains(t, err.Error(), "beyond")
}
