package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "llx",
		Short: "Tools built on the local lexing engine",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbosity, nil)
		},
	}

	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity (repeatable effect via higher values)")

	rootCmd.AddCommand(newCalcCmd())
	rootCmd.AddCommand(newEbnfCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
