package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"docclass/internal/pipeline"
)

var predictCmd = &cobra.Command{
	Use:   "predict [dir]",
	Short: "Predict a class for every file in a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPredict,
}

func runPredict(cmd *cobra.Command, args []string) error {
	dir := cfg.Dataset.PredictDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("no prediction directory: set dataset.predict_dir or pass one")
	}

	m, err := loadModel()
	if err != nil {
		return err
	}
	results, err := pipeline.New(cfg, m, nil, nil).PredictDir(dir)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tCLASS\tCONFIDENCE")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%.4f\n", r.FileName, r.Prediction.Class, r.Prediction.Confidence())
	}
	return w.Flush()
}
