package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docclass/internal/pipeline"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit the vectorizer and classifier on the labeled training folders",
	Args:  cobra.NoArgs,
	RunE:  runTrain,
}

func init() {
	trainCmd.Flags().String("dir", "", "training root (overrides dataset.train_dir)")
	trainCmd.Flags().String("out", "", "model file (overrides model.path)")
}

func runTrain(cmd *cobra.Command, _ []string) error {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.Dataset.TrainDir = dir
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		cfg.Model.Path = out
	}
	if cfg.Dataset.TrainDir == "" {
		return fmt.Errorf("no training directory: set dataset.train_dir or --dir")
	}

	m, err := pipeline.Train(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "model %s: %d classes, C=%g, cv error %.4f\n",
		m.ID, m.Classes.Len(), m.Selection.C, m.Selection.Error())
	return nil
}

