package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tranvantrung27/herbadmin/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file in the current directory",
	Long:  `Creates a ` + config.FileName + ` file with commented default settings.`,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.FileName
	if cfgPath != "" {
		path = cfgPath
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	fmt.Printf("Created %s\n", path)
	return nil
}
