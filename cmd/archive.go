package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docclass/internal/archive"
	"docclass/internal/helper"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the archive of classified documents",
}

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current model's collection to an encrypted file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		arch, err := modelArchive()
		if err != nil {
			return err
		}
		if err := helper.CreateFolder(cfg.Archive.Path); err != nil {
			return err
		}
		path, err := arch.Export()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d documents to %s\n", arch.Count(), path)
		return nil
	},
}

var archiveImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load an exported collection into the current model's archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, err := modelArchive()
		if err != nil {
			return err
		}
		if err := arch.Import(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "archive holds %d documents\n", arch.Count())
		return nil
	},
}

var archiveClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the current model's collection",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		arch, err := modelArchive()
		if err != nil {
			return err
		}
		return arch.DeleteCollection()
	},
}

func init() {
	archiveCmd.AddCommand(archiveExportCmd, archiveImportCmd, archiveClearCmd)
}

func modelArchive() (*archive.Archive, error) {
	if !cfg.Archive.Enabled {
		return nil, fmt.Errorf("archive is not enabled: set archive.enabled")
	}
	m, err := loadModel()
	if err != nil {
		return nil, err
	}
	return archive.Open(cfg.Archive, m.ID)
}
