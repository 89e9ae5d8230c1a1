package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/locallex/examples/calc"
)

func newCalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "calc <expression>",
		Short:         "Evaluate an arithmetic expression",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := strings.Join(args, " ")
			val, err := calc.Evaluate(expr)
			if err != nil {
				return fmt.Errorf("evaluate %q: %w", expr, err)
			}
			fmt.Println(val)
			return nil
		},
	}
}
