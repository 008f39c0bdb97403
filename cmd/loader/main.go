// loader imports seed data from fixed-schema CSV files into an empty
// database. It is an offline tool: run it before serving traffic, never
// alongside it. If any target table already has rows it refuses to run.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir     string
	databaseURL string
)

var rootCmd = &cobra.Command{
	Use:   "loader",
	Short: "loader - reviewhub seed data importer",
	Long: `loader imports seed data for the reviewhub API from CSV files:
users.csv, category.csv, genre.csv, titles.csv, review.csv, comments.csv
and genre_title.csv. The target database must be migrated and empty.`,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV seed data into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if databaseURL == "" {
			databaseURL = os.Getenv("DATABASE_URL")
		}
		if databaseURL == "" {
			return fmt.Errorf("no database URL: set --database-url or DATABASE_URL")
		}
		return runImport(dataDir, databaseURL)
	},
}

func init() {
	importCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "directory holding the CSV files")
	importCmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres URL (defaults to DATABASE_URL)")
	rootCmd.AddCommand(importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
