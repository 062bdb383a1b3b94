package commands

import (
	"context"
	"os"

	"pokedex-backend/lib/sqliteutil"
	"pokedex-backend/lib/util/serviceutil"
	"pokedex-backend/services/pokedex/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statsDb *string

func init() {
	statsDb = statsCmd.Flags().String("db", "pokedex.db", "The database to inspect.")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats [--db <path/to/output.db>]",
	Short: "Prints row counts for every table in the database.",
	Run: func(cmd *cobra.Command, args []string) {
		conn, err := sqliteutil.OpenDB(db.Schema, *statsDb)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer conn.Close()

		ctx := cmd.Context()
		queries := db.New(conn)

		counts := []struct {
			table string
			count func(context.Context) (int64, error)
		}{
			{"pokemon", queries.CountPokemon},
			{"formes", queries.CountFormes},
			{"form_descriptions", queries.CountFormDescriptions},
			{"abilities", queries.CountAbilities},
			{"form_abilities", queries.CountFormAbilities},
			{"evolutions", queries.CountEvolutions},
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Table", "Rows"})
		for _, c := range counts {
			n, err := c.count(ctx)
			if err != nil {
				serviceutil.Fatal("failed to count "+c.table, err)
			}
			t.AppendRow(table.Row{c.table, n})
		}
		t.Render()
	},
}
