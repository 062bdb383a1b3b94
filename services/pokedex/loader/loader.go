// Package loader materializes the relational schema from the
// intermediate store.
package loader

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	"pokedex-backend/lib/scrapers/pokedex"
	"pokedex-backend/services/pokedex/db"
	"pokedex-backend/services/pokedex/store"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/pokedex/loader")

// Load runs two sequential passes over the intermediate store:
// abilities first, so every form ability reference written later lands
// on an existing row, then the pokemon. Constraint violations are
// fatal, the load stops at the offending record.
func Load(ctx context.Context, out *sql.DB, st *store.Store) error {
	ctx, span := tracer.Start(ctx, "Load")
	defer span.End()

	qry := db.New(out)

	err := st.ForEachAbility(func(a pokedex.Ability) error {
		return qry.CreateAbility(ctx, db.CreateAbilityParams{
			Ability: a.Name,
			Info:    a.Description,
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ability pass failed")
		return fmt.Errorf("load abilities: %w", err)
	}

	err = st.ForEachPokemon(func(p pokedex.Pokemon) error {
		err := loadPokemon(ctx, out, qry, p)
		if err != nil {
			return fmt.Errorf("load %s: %w", p.Name, err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pokemon pass failed")
		return err
	}
	return nil
}

// loadPokemon writes every derived row of one pokemon inside a single
// transaction: the pokemon row, one forme row per forme with its
// description and ability rows, and the evolution edges of its line.
func loadPokemon(ctx context.Context, out *sql.DB, qry *db.Queries, p pokedex.Pokemon) error {
	ctx, span := tracer.Start(ctx, "loadPokemon")
	defer span.End()

	tx, err := out.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := qry.WithTx(tx)

	slog.DebugContext(ctx, "loading pokemon", "number", p.Number, "name", p.Name)

	err = txqry.CreatePokemon(ctx, db.CreatePokemonParams{
		Name:   p.Name,
		Number: int64(p.Number),
	})
	if err != nil {
		return err
	}

	for _, f := range p.Formes {
		if err := loadForme(ctx, txqry, p.Name, f); err != nil {
			return fmt.Errorf("forme %q: %w", f.Name, err)
		}
	}

	if err := loadEvolutions(ctx, txqry, p); err != nil {
		return err
	}

	return tx.Commit()
}

func loadForme(ctx context.Context, txqry *db.Queries, pokemonName string, f pokedex.Forme) error {
	if len(f.Types) == 0 {
		return fmt.Errorf("no types")
	}
	type2 := sql.NullString{}
	if len(f.Types) > 1 {
		type2 = sql.NullString{String: f.Types[1], Valid: true}
	}

	male := int64(0)
	if slices.Contains(f.Genders, "Male") {
		male = 1
	}
	female := int64(0)
	if slices.Contains(f.Genders, "Female") {
		female = 1
	}

	err := txqry.CreateForme(ctx, db.CreateFormeParams{
		Pokemon:  pokemonName,
		Form:     f.Name,
		Height:   f.Height,
		Weight:   f.Weight,
		Category: f.Category,
		Type1:    f.Types[0],
		Type2:    type2,
		Male:     male,
		Female:   female,
	})
	if err != nil {
		return err
	}

	// the two description slots may hold the same text, which would
	// collide on the (pokemon, form, description) key, so identical
	// entries collapse to one row
	for i, description := range f.Descriptions {
		if slices.Contains(f.Descriptions[:i], description) {
			continue
		}
		err := txqry.CreateFormDescription(ctx, db.CreateFormDescriptionParams{
			Pokemon:     pokemonName,
			Form:        f.Name,
			Description: description,
		})
		if err != nil {
			return err
		}
	}

	for _, ability := range f.Abilities {
		err := txqry.CreateFormAbility(ctx, db.CreateFormAbilityParams{
			Pokemon: pokemonName,
			Form:    f.Name,
			Ability: ability,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// loadEvolutions derives the edge set of the pokemon's evolution line.
// Every member of a line repeats the same lineage on its own page, so
// the edges go in only once: whichever member loads first writes them,
// the rest find themselves already referenced and skip.
func loadEvolutions(ctx context.Context, txqry *db.Queries, p pokedex.Pokemon) error {
	present, err := txqry.HasEvolutionsFor(ctx, p.Name)
	if err != nil {
		return err
	}
	if present {
		slog.DebugContext(ctx, "evolution line already loaded", "name", p.Name)
		return nil
	}

	edges, err := p.Evolutions.Edges()
	if err != nil {
		return err
	}
	for _, edge := range edges {
		err := txqry.CreateEvolution(ctx, db.CreateEvolutionParams{
			Pokemon:   edge.From,
			EvolvesTo: edge.To,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
