package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/MalithGihan/topograph-service/internal/ingest"
	"github.com/MalithGihan/topograph-service/internal/logging"
	"github.com/MalithGihan/topograph-service/pkg/types"
)

var version = "0.3.0"

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "topograph",
		Short:         "Lay out and render message broker topologies",
		Long:          brand.Sprint("topograph") + ": broker exchanges and queues drawn as a graph",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(logging.ParseLevel(logLevel), "text", os.Stderr)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		serveCmd(),
		renderCmd(),
		inspectCmd(),
		validateCmd(),
	)
	return root
}

// loadTopology parses and merges the given files. With no paths it returns
// the built-in sample.
func loadTopology(paths []string) (types.Topology, []string, error) {
	if len(paths) == 0 {
		t := ingest.Sample()
		ingest.Normalize(&t)
		return t, nil, nil
	}
	var files []ingest.ParsedFile
	for _, p := range paths {
		f, err := ingest.ParseFile(p)
		if err != nil {
			return types.Topology{}, nil, err
		}
		files = append(files, f)
	}
	t, notes := ingest.BuildCollections(files)
	return t, notes, nil
}
