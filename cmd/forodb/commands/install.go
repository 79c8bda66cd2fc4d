package commands

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"github.com/forodb/forodb/cmd/forodb/output"
	"github.com/forodb/forodb/cmd/forodb/tui"
	"github.com/forodb/forodb/pkg/ddl"
)

var (
	// Install flags
	dryRun      bool
	interactive bool
)

// installCmd creates the schema
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Create all missing tables",
	Long: `Create every table of the forum schema that does not already exist.

Every statement is CREATE TABLE IF NOT EXISTS, so running install twice,
or from two processes at once, converges to the same schema.

Examples:
  forodb install --db user:pass@tcp(localhost:3306)/board
  forodb install --db ... --dry-run        # Preview without executing
  forodb install --db ... --interactive    # Per-table progress TUI`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall()
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the statements without executing them")
	installCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run in interactive mode with TUI")
	installCmd.Flags().StringVar(&serverVersion, "server-version", "", "Override server version detection for engine selection")
}

func runInstall() error {
	if dryRun {
		return runDDL()
	}
	if dbDSN == "" {
		return fmt.Errorf("--db flag is required")
	}

	if interactive {
		return tui.RunInstallUI(dbDSN, generatorOptions())
	}

	ctx := context.Background()

	db, err := sql.Open("mysql", dbDSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	opts := generatorOptions()
	if opts.ServerVersion == "" {
		opts.ServerVersion, err = ddl.DetectServerVersion(ctx, db)
		if err != nil {
			return err
		}
		if verbose {
			output.Muted("server version %s", opts.ServerVersion)
		}
	}

	installer := ddl.NewInstaller(db, opts)
	stmts, err := installer.Generator().CreateStatements()
	if err != nil {
		return err
	}

	for _, stmt := range stmts {
		if err := installer.EnsureTable(ctx, stmt); err != nil {
			output.Error("table %s failed", stmt.Table)
			return err
		}
		if verbose {
			output.Success("table %s", stmt.Table)
		}
	}

	output.Success("schema installed: %d tables", len(stmts))
	return nil
}
