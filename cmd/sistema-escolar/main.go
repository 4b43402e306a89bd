package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sistema-escolar/pkg/config"
)

// @title Sistema Escolar API
// @version 1.0.0
// @description Cadastro de usuários, alunos e professores.
// @BasePath /api

var (
	version = "dev"
	commit  = "none"
)

// CLI flags
var (
	port       int
	dbDriver   string
	sqlitePath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sistema-escolar",
		Short:         "Sistema Escolar - school registry API",
		Long:          `Serves the school registry API (usuarios, alunos, professores) and its static frontend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 0, "HTTP port (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "storage backend: sqlite, postgres or memory (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite-path", "", "SQLite database file (overrides SQLITE_PATH)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE:  runServe,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "bootstrap",
		Short: "Create the schema and the seed administrator, then exit",
		RunE:  runBootstrap,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sistema-escolar %s (commit: %s)\n", version, commit)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if port != 0 {
		cfg.Port = port
	}
	if dbDriver != "" {
		cfg.Database.Driver = dbDriver
	}
	if sqlitePath != "" {
		cfg.Database.SQLitePath = sqlitePath
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app := newApp(cfg)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	<-app.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	return app.Stop(stopCtx)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()
	return bootstrapOnly(ctx, cfg)
}
