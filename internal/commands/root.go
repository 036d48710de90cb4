package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/recon/internal/buildinfo"
	"github.com/cleared-dev/recon/internal/config"
	"github.com/cleared-dev/recon/internal/logging"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "recon",
		Short:   "Bank statement review: batch payment suggestions and sortable match tables",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newReviewCommand())
	rootCmd.AddCommand(newSortCommand())

	return rootCmd
}

// loadRepo resolves dir and loads its recon.yaml plus a logger writing to errOut.
func loadRepo(dir string, errOut io.Writer) (string, *config.Config, *zap.Logger, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		return "", nil, nil, err
	}

	if errOut == nil {
		errOut = os.Stderr
	}
	logger, err := logging.New(cfg.Logging, errOut)
	if err != nil {
		return "", nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return absDir, cfg, logger, nil
}
