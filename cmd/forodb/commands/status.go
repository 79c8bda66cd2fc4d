package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"github.com/forodb/forodb/cmd/forodb/output"
	"github.com/forodb/forodb/pkg/ddl"
)

// statusCmd reports which schema tables exist
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which tables exist in the target database",
	Long: `Compare the expected forum schema against the target database and
report each table as installed or missing.

Examples:
  forodb status --db user:pass@tcp(localhost:3306)/board
  forodb status --db ... --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type tableStatus struct {
	Table     string `json:"table"`
	Installed bool   `json:"installed"`
}

func runStatus() error {
	if dbDSN == "" {
		return fmt.Errorf("--db flag is required")
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

	installer := ddl.NewInstaller(db, generatorOptions())
	installed, err := installer.InstalledTables(ctx)
	if err != nil {
		return err
	}

	stmts, err := installer.Generator().CreateStatements()
	if err != nil {
		return err
	}

	statuses := make([]tableStatus, 0, len(stmts))
	missing := 0
	for _, stmt := range stmts {
		ok := installed[stmt.Table]
		if !ok {
			missing++
		}
		statuses = append(statuses, tableStatus{Table: stmt.Table, Installed: ok})
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tSTATUS")
	for _, st := range statuses {
		state := "installed"
		if !st.Installed {
			state = "missing"
		}
		fmt.Fprintf(w, "%s\t%s %s\n", st.Table, output.StatusIcon(state), state)
	}
	w.Flush()

	if missing > 0 {
		output.Warning("%d of %d tables missing; run forodb install", missing, len(statuses))
	} else {
		output.Success("all %d tables installed", len(statuses))
	}
	return nil
}
