// Command nekodedup runs the near-duplicate image dedup pipeline, one
// subcommand per stage.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "nekodedup",
		Short: "Near-duplicate image dedup pipeline",
		Long: `nekodedup clusters near-identical images in a vector store, triages
each cluster to a single survivor (animated GIFs handled specially), and
emits keep/delete/retag operations back to the vector DB and object store.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("nekodedup v%s\n", version)
		},
	})

	rootCmd.AddCommand(newClusterLocalCmd())
	rootCmd.AddCommand(newTriageCmd())
	rootCmd.AddCommand(newEmitMutationsCmd())
	rootCmd.AddCommand(newRenameFilesCmd())
	rootCmd.AddCommand(newHashIndexCmd())
	rootCmd.AddCommand(newHashSearchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
