package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MalithGihan/topograph-service/internal/validate"
)

var errInvalid = errors.New("validation failed")

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <files...>",
		Short: "Check topology documents against the document schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			doc, notes, err := loadTopology(args)
			if err != nil {
				return err
			}
			for _, n := range notes {
				warn.Fprintf(w, "  note: %s\n", n)
			}

			err = validate.Topology(doc)
			var ve *validate.Error
			switch {
			case err == nil:
				fmt.Fprintf(w, "  %s %d exchanges, %d queues, %d bindings\n",
					statusIcon(true), len(doc.Exchanges), len(doc.Queues), len(doc.Bindings))
				return nil
			case errors.As(err, &ve):
				for _, p := range ve.Problems {
					fmt.Fprintf(w, "  %s %s\n", statusIcon(false), p)
				}
				return fmt.Errorf("%w: %d problem(s)", errInvalid, len(ve.Problems))
			default:
				return err
			}
		},
	}
}
