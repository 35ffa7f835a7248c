package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"docclass/internal/pipeline"
)

var similarCmd = &cobra.Command{
	Use:   "similar <file>",
	Short: "List archived documents closest to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

func init() {
	similarCmd.Flags().IntP("limit", "n", 5, "number of matches")
	similarCmd.Flags().String("class", "", "only match documents archived under this class")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	class, _ := cmd.Flags().GetString("class")

	m, err := loadModel()
	if err != nil {
		return err
	}
	arch, err := openArchive(m.ID)
	if err != nil {
		return err
	}

	matches, err := pipeline.New(cfg, m, nil, arch).Similar(cmd.Context(), args[0], limit, class)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tCLASS\tCONFIDENCE\tSIMILARITY")
	for _, mt := range matches {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\n", mt.FileName, mt.Class, mt.Confidence, mt.Similarity)
	}
	return w.Flush()
}
