// Package pokedex scrapes pages at
// https://www.pokemon.com/us/pokedex/<name-of-a-pokemon>.
//
// Each page describes a single pokemon: one or more formes with their
// attributes, the named abilities those formes carry, the pokemon's
// evolution line, and a link to the next page in the pokedex. The
// pokedex is circular, the last page links back to the first.
package pokedex

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("scrapers/pokedex")

type Pokemon struct {
	Name   string
	Number int
	Url    string
	// never empty, a page without explicit forme markup yields a
	// single forme named after the pokemon itself
	Formes     []Forme
	Evolutions Lineage
}

type Forme struct {
	Name  string
	Image string
	// one or two entries, possibly identical
	Descriptions []string
	// one or two entries
	Types    []string
	Height   string
	Weight   string
	Category string
	// "Male" and/or "Female", or a single free-text label such as
	// "Unknown" when the page carries no gender icons
	Genders []string
	// may be empty, one pokemon has no ability section at all
	Abilities []string
}

type Ability struct {
	Name        string
	Description string
}

// Result is everything extracted from one pokedex page.
type Result struct {
	Pokemon   Pokemon
	Abilities []Ability
	NextUrl   string
}
