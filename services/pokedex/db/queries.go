package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const createPokemon = `
INSERT INTO pokemon (name, number) VALUES (?, ?)
`

type CreatePokemonParams struct {
	Name   string
	Number int64
}

func (q *Queries) CreatePokemon(ctx context.Context, arg CreatePokemonParams) error {
	_, err := q.db.ExecContext(ctx, createPokemon, arg.Name, arg.Number)
	return err
}

const createForme = `
INSERT INTO formes (pokemon, form, height, weight, category, type_1, type_2, male, female)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateFormeParams struct {
	Pokemon  string
	Form     string
	Height   string
	Weight   string
	Category string
	Type1    string
	Type2    sql.NullString
	Male     int64
	Female   int64
}

func (q *Queries) CreateForme(ctx context.Context, arg CreateFormeParams) error {
	_, err := q.db.ExecContext(ctx, createForme,
		arg.Pokemon,
		arg.Form,
		arg.Height,
		arg.Weight,
		arg.Category,
		arg.Type1,
		arg.Type2,
		arg.Male,
		arg.Female,
	)
	return err
}

const createFormDescription = `
INSERT INTO form_descriptions (pokemon, form, description) VALUES (?, ?, ?)
`

type CreateFormDescriptionParams struct {
	Pokemon     string
	Form        string
	Description string
}

func (q *Queries) CreateFormDescription(ctx context.Context, arg CreateFormDescriptionParams) error {
	_, err := q.db.ExecContext(ctx, createFormDescription, arg.Pokemon, arg.Form, arg.Description)
	return err
}

const createAbility = `
INSERT INTO abilities (ability, info) VALUES (?, ?)
ON CONFLICT (ability) DO NOTHING
`

type CreateAbilityParams struct {
	Ability string
	Info    string
}

// CreateAbility inserts an ability unless one with the same name is
// already present, the existing row wins.
func (q *Queries) CreateAbility(ctx context.Context, arg CreateAbilityParams) error {
	_, err := q.db.ExecContext(ctx, createAbility, arg.Ability, arg.Info)
	return err
}

const createFormAbility = `
INSERT INTO form_abilities (pokemon, form, ability) VALUES (?, ?, ?)
`

type CreateFormAbilityParams struct {
	Pokemon string
	Form    string
	Ability string
}

func (q *Queries) CreateFormAbility(ctx context.Context, arg CreateFormAbilityParams) error {
	_, err := q.db.ExecContext(ctx, createFormAbility, arg.Pokemon, arg.Form, arg.Ability)
	return err
}

const createEvolution = `
INSERT INTO evolutions (pokemon, evolves_to) VALUES (?, ?)
`

type CreateEvolutionParams struct {
	Pokemon   string
	EvolvesTo string
}

func (q *Queries) CreateEvolution(ctx context.Context, arg CreateEvolutionParams) error {
	_, err := q.db.ExecContext(ctx, createEvolution, arg.Pokemon, arg.EvolvesTo)
	return err
}

const hasEvolutionsFor = `
SELECT EXISTS(SELECT 1 FROM evolutions WHERE pokemon = ? OR evolves_to = ?)
`

// HasEvolutionsFor reports whether any evolution edge already
// references the named pokemon, on either end.
func (q *Queries) HasEvolutionsFor(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, hasEvolutionsFor, name, name).Scan(&exists)
	return exists, err
}

const getPokemon = `
SELECT name, number FROM pokemon WHERE name = ?
`

type GetPokemonRow struct {
	Name   string
	Number int64
}

func (q *Queries) GetPokemon(ctx context.Context, name string) (GetPokemonRow, error) {
	var row GetPokemonRow
	err := q.db.QueryRowContext(ctx, getPokemon, name).Scan(&row.Name, &row.Number)
	return row, err
}

const getAbilityInfo = `
SELECT info FROM abilities WHERE ability = ?
`

func (q *Queries) GetAbilityInfo(ctx context.Context, ability string) (string, error) {
	var info string
	err := q.db.QueryRowContext(ctx, getAbilityInfo, ability).Scan(&info)
	return info, err
}

const listEvolutions = `
SELECT pokemon, evolves_to FROM evolutions ORDER BY pokemon, evolves_to
`

type ListEvolutionsRow struct {
	Pokemon   string
	EvolvesTo string
}

func (q *Queries) ListEvolutions(ctx context.Context) ([]ListEvolutionsRow, error) {
	rows, err := q.db.QueryContext(ctx, listEvolutions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListEvolutionsRow
	for rows.Next() {
		var row ListEvolutionsRow
		if err := rows.Scan(&row.Pokemon, &row.EvolvesTo); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

const listFormDescriptions = `
SELECT description FROM form_descriptions WHERE pokemon = ? AND form = ? ORDER BY description
`

type ListFormDescriptionsParams struct {
	Pokemon string
	Form    string
}

func (q *Queries) ListFormDescriptions(ctx context.Context, arg ListFormDescriptionsParams) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listFormDescriptions, arg.Pokemon, arg.Form)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var description string
		if err := rows.Scan(&description); err != nil {
			return nil, err
		}
		out = append(out, description)
	}
	return out, rows.Err()
}

func (q *Queries) countTable(ctx context.Context, query string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

func (q *Queries) CountPokemon(ctx context.Context) (int64, error) {
	return q.countTable(ctx, `SELECT COUNT(*) FROM pokemon`)
}

func (q *Queries) CountFormes(ctx context.Context) (int64, error) {
	return q.countTable(ctx, `SELECT COUNT(*) FROM formes`)
}

func (q *Queries) CountFormDescriptions(ctx context.Context) (int64, error) {
	return q.countTable(ctx, `SELECT COUNT(*) FROM form_descriptions`)
}

func (q *Queries) CountAbilities(ctx context.Context) (int64, error) {
	return q.countTable(ctx, `SELECT COUNT(*) FROM abilities`)
}

func (q *Queries) CountFormAbilities(ctx context.Context) (int64, error) {
	return q.countTable(ctx, `SELECT COUNT(*) FROM form_abilities`)
}

func (q *Queries) CountEvolutions(ctx context.Context) (int64, error) {
	return q.countTable(ctx, `SELECT COUNT(*) FROM evolutions`)
}
