package commands

import (
	"log/slog"
	"time"

	"pokedex-backend/lib/sqliteutil"
	"pokedex-backend/lib/util/serviceutil"
	"pokedex-backend/services/pokedex/db"
	"pokedex-backend/services/pokedex/loader"
	"pokedex-backend/services/pokedex/store"

	"github.com/spf13/cobra"
)

var loadStore *string
var loadDb *string

func init() {
	loadStore = loadCmd.Flags().String("store", "pokedex-store", "The directory holding scraped records.")
	loadDb = loadCmd.Flags().String("db", "pokedex.db", "The database to load scraped records into.")
	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load [--store <path/to/store>] [--db <path/to/output.db>]",
	Short: "Loads scraped records into the relational schema.",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := store.Open(*loadStore)
		if err != nil {
			serviceutil.Fatal("failed to open store", err)
		}
		defer st.Close()

		out, err := sqliteutil.OpenDB(db.Schema, *loadDb)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer out.Close()

		t1 := time.Now()
		err = loader.Load(cmd.Context(), out, st)
		if err != nil {
			serviceutil.Fatal("load failed", err)
		}
		t2 := time.Now()

		slog.Info("load time", "seconds", t2.Sub(t1).Seconds())
	},
}
