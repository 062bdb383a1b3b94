package store

import (
	"testing"

	"pokedex-backend/lib/scrapers/pokedex"

	"github.com/stretchr/testify/require"
)

func TestPokemonRoundTrip(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.PutPokemon(pokedex.Pokemon{Name: "Ivysaur", Number: 2}))
	require.NoError(t, s.PutPokemon(pokedex.Pokemon{Name: "Bulbasaur", Number: 1}))
	// writing the same number again replaces the record
	require.NoError(t, s.PutPokemon(pokedex.Pokemon{Name: "Ivysaur", Number: 2, Url: "https://www.pokemon.com/us/pokedex/ivysaur"}))

	var names []string
	var urls []string
	err = s.ForEachPokemon(func(p pokedex.Pokemon) error {
		names = append(names, p.Name)
		urls = append(urls, p.Url)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Bulbasaur", "Ivysaur"}, names)
	require.Equal(t, []string{"", "https://www.pokemon.com/us/pokedex/ivysaur"}, urls)
}

func TestAbilityFirstSeenWins(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	defer s.Close()

	written, err := s.PutAbility(pokedex.Ability{Name: "Overgrow", Description: "first"})
	require.NoError(t, err)
	require.True(t, written)

	written, err = s.PutAbility(pokedex.Ability{Name: "Overgrow", Description: "second"})
	require.NoError(t, err)
	require.False(t, written)

	var abilities []pokedex.Ability
	err = s.ForEachAbility(func(a pokedex.Ability) error {
		abilities = append(abilities, a)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []pokedex.Ability{{Name: "Overgrow", Description: "first"}}, abilities)
}
