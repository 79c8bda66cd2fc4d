package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbDSN       string
	tablePrefix string
	charset     string
	collation   string
	verbose     bool
	jsonOutput  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "forodb",
	Short: "forodb - forum schema installer and maintenance tool",
	Long: `forodb manages the relational schema of a forum board on a shared
MySQL-compatible database: sixteen tables covering the content tree,
member profiles, engagement tracking, and localization.

Commands:
  ddl        - Print the CREATE TABLE statements without connecting
  install    - Create all missing tables (idempotent)
  status     - Show which tables exist in the target database
  reconcile  - Recompute denormalized counters and verify linkage`,
	Version: "1.2.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db", "", "Database DSN, e.g. user:pass@tcp(host:3306)/dbname (required for most commands)")
	rootCmd.PersistentFlags().StringVar(&tablePrefix, "prefix", "wpforo_", "Physical table name prefix")
	rootCmd.PersistentFlags().StringVar(&charset, "charset", "", "DEFAULT CHARACTER SET for created tables")
	rootCmd.PersistentFlags().StringVar(&collation, "collation", "", "COLLATE for created tables")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}
