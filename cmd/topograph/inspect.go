package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MalithGihan/topograph-service/internal/layout"
	"github.com/MalithGihan/topograph-service/internal/render"
	"github.com/MalithGihan/topograph-service/internal/topology"
	"github.com/MalithGihan/topograph-service/pkg/types"
)

func inspectCmd() *cobra.Command {
	var (
		filter     string
		unresolved bool
	)
	cmd := &cobra.Command{
		Use:   "inspect [files...]",
		Short: "Print the resolved nodes and edges",
		RunE: func(cmd *cobra.Command, args []string) error {
			ft := types.FilterType(filter)
			if !ft.Valid() {
				return fmt.Errorf("unknown filter %q", filter)
			}
			doc, notes, err := loadTopology(args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			g := topology.Resolve(doc.Exchanges, doc.Queues, doc.Bindings, ft)
			ex, qs, es := g.Counts()
			fmt.Fprintf(w, "%s  %d exchanges, %d queues, %d edges\n\n", brand.Sprint("topology"), ex, qs, es)

			rows := make([][]string, 0, len(g.Nodes))
			for _, n := range g.Nodes {
				detail := ""
				switch {
				case n.Exchange != nil:
					detail = string(n.Exchange.Type)
				case n.Queue != nil:
					detail = fmt.Sprintf("%s, %d msgs, health %d (%s)",
						n.Queue.Type, n.Queue.MessagesTotal, n.Queue.HealthScore, render.HealthOf(n.Queue.HealthScore))
				}
				rows = append(rows, []string{n.ID, string(n.Type), n.Name, coord(n.X, n.Y), detail})
			}
			table(w, []string{"ID", "TYPE", "NAME", "POSITION", "DETAIL"}, rows)
			fmt.Fprintln(w)

			rows = rows[:0]
			for _, e := range g.Edges {
				rows = append(rows, []string{e.ID, e.Source, e.Target, e.RoutingKey, e.SourceMatch + "/" + e.TargetMatch})
			}
			table(w, []string{"EDGE", "SOURCE", "TARGET", "ROUTING KEY", "MATCHED BY"}, rows)

			if unresolved {
				fmt.Fprintln(w)
				if len(g.Unresolved) == 0 {
					fmt.Fprintf(w, "  %s every binding resolved\n", statusIcon(true))
				}
				for _, u := range g.Unresolved {
					fmt.Fprintf(w, "  %s %s %s -> %s: %s not found\n",
						statusIcon(false), u.Binding.ID, u.Binding.Source, u.Binding.Destination, u.Side)
				}
				for _, n := range notes {
					warn.Fprintf(w, "  note: %s\n", n)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", string(types.FilterAll), "node filter: all, exchange or queue")
	cmd.Flags().BoolVar(&unresolved, "unresolved", false, "list bindings that did not resolve and ingest notes")
	return cmd
}

func coord(x, y float64) string {
	return "(" + layout.FormatCoord(x) + ", " + layout.FormatCoord(y) + ")"
}
