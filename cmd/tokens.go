package main

import (
	"fmt"

	"github.com/kievzenit/impc/internal/lexer"
	"github.com/kievzenit/impc/internal/parser"
	"github.com/spf13/cobra"
)

func (a *app) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileName := args[0]
			source, err := a.readSource(fileName)
			if err != nil {
				return err
			}

			tokens := lexer.NewLexer(source).Tokenize()
			for _, token := range tokens {
				fmt.Fprintf(a.stdout, "%d:%d\t%s\n", token.Line, token.Column, token.String())
			}

			if last := tokens[len(tokens)-1]; last.Kind == lexer.ERR {
				eh := a.newErrorHandler(fileName)
				eh.AddError(&parser.LexicalError{Token: last})
				return a.fail(eh)
			}

			return nil
		},
	}
}
