package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	xebnf "golang.org/x/exp/ebnf"

	"github.com/dhamidi/locallex/ebnf"
)

func newEbnfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ebnf",
		Short:         "EBNF grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newEbnfCheckCmd())
	cmd.AddCommand(newEbnfParseCmd())

	return cmd
}

func newEbnfCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check <file>",
		Short:         "Parse and verify an EBNF grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrammar(args[0])
			if err != nil {
				return err
			}
			if startProduction == "" {
				return nil
			}
			if _, err := ebnf.Compile(g, startProduction); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newEbnfParseCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "parse <grammar-file> <input>",
		Short:         "Parse input text with an EBNF grammar and print the syntax tree",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrammar(args[0])
			if err != nil {
				return err
			}
			node, err := ebnf.Parse(g, startProduction, args[1])
			if err != nil {
				return err
			}
			node.Dump(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production")
	cmd.MarkFlagRequired("start")

	return cmd
}

func loadGrammar(filename string) (xebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	g, err := xebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return g, nil
}
