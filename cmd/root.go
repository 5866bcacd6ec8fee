package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "exoplanet-review",
	Short: "Exoplanet candidate classification and expert review service",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
