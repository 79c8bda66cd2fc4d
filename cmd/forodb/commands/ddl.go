package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forodb/forodb/pkg/ddl"
	"github.com/forodb/forodb/pkg/schema"
)

var serverVersion string

// ddlCmd prints the rendered schema without touching a database
var ddlCmd = &cobra.Command{
	Use:   "ddl",
	Short: "Print the CREATE TABLE statements",
	Long: `Print the full set of CREATE TABLE statements the installer would
run, without connecting to a database.

Examples:
  forodb ddl                               # Modern server defaults
  forodb ddl --server-version 5.5.40       # Pre-5.6.4 engine selection
  forodb ddl --charset utf8mb4 --collation utf8mb4_unicode_ci
  forodb ddl --prefix myboard_ --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDDL()
	},
}

func init() {
	rootCmd.AddCommand(ddlCmd)
	ddlCmd.Flags().StringVar(&serverVersion, "server-version", "", "Target server version for engine selection")
}

func generatorOptions() ddl.Options {
	return ddl.Options{
		Charset:       charset,
		Collation:     collation,
		ServerVersion: serverVersion,
		Names:         schema.DefaultNames(tablePrefix),
	}
}

func runDDL() error {
	gen := ddl.NewGenerator(generatorOptions())
	stmts, err := gen.CreateStatements()
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stmts)
	}

	for _, stmt := range stmts {
		fmt.Println(stmt.SQL + ";")
		fmt.Println()
	}
	return nil
}
