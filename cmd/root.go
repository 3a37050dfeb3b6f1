package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tranvantrung27/herbadmin/internal/app"
	"github.com/tranvantrung27/herbadmin/internal/auth"
	"github.com/tranvantrung27/herbadmin/internal/config"
	"github.com/tranvantrung27/herbadmin/internal/storage"
	"github.com/tranvantrung27/herbadmin/internal/store"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "herbadmin",
	Short: "Terminal admin console for the herbal remedies catalog",
	Long: `herbadmin manages the herbal remedies catalog: disease remedies,
healthy-living articles and the herb library, plus its categories.`,
	RunE: runRoot,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default "+config.FileName+")")
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	st, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	bucket := storage.NewBucket(cfg.Storage.Dir, cfg.Storage.BaseURL)
	authn := auth.New(cfg.Auth.Enabled, cfg.Auth.Secret,
		time.Duration(cfg.Auth.TokenTTL)*time.Hour, cfg.Auth.Users)

	m := app.NewModel(st, bucket, authn, st.Path())
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
