package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"docclass/internal/db"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List stored document classification results",
	Args:  cobra.NoArgs,
	RunE:  runResults,
}

func init() {
	resultsCmd.Flags().String("class", "", "only list results for this class")
	resultsCmd.Flags().IntP("limit", "n", 20, "maximum rows, 0 for all")
	resultsCmd.Flags().Bool("drop", false, "drop the results table instead of listing")
}

func runResults(cmd *cobra.Command, _ []string) error {
	if !cfg.Database.Enabled {
		return fmt.Errorf("database is not enabled: set database.enabled and database.dsn")
	}
	ctx := cmd.Context()
	bunDB, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer bunDB.Close()

	if drop, _ := cmd.Flags().GetBool("drop"); drop {
		return db.DropResults(ctx, bunDB)
	}

	class, _ := cmd.Flags().GetString("class")
	limit, _ := cmd.Flags().GetInt("limit")
	rows, err := db.ListResults(ctx, bunDB, class, limit)
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSOURCE\tCLASS\tCONFIDENCE\tBLOCKS")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.4f\t%d/%d/%d\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Source, r.Class, r.Confidence, r.Agreeing, r.Selected, r.Blocks)
	}
	return w.Flush()
}
