package main

import (
	"github.com/spf13/cobra"

	"docclass/internal/helper"
	"docclass/internal/pipeline"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Classify a multi-block document by voting over its text blocks",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassify,
}

func init() {
	classifyCmd.Flags().Bool("blocks", false, "print per-block predictions")
	classifyCmd.Flags().Int("top", 0, "blocks kept for the vote (overrides aggregator.top_n)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		cfg.Aggregator.TopN = top
	}
	ctx := cmd.Context()

	m, err := loadModel()
	if err != nil {
		return err
	}
	bunDB, err := openDB(ctx)
	if err != nil {
		return err
	}
	if bunDB != nil {
		defer bunDB.Close()
	}
	arch, err := openArchive(m.ID)
	if err != nil {
		return err
	}

	out, err := pipeline.New(cfg, m, bunDB, arch).ClassifyDocument(ctx, args[0])
	if err != nil {
		return err
	}

	if blocks, _ := cmd.Flags().GetBool("blocks"); blocks {
		helper.FprettyPrint(cmd.OutOrStdout(), out)
		return nil
	}
	helper.FprettyPrint(cmd.OutOrStdout(), out.Result)
	return nil
}
