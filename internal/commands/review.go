package commands

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cleared-dev/recon/internal/batch"
	"github.com/cleared-dev/recon/internal/gitops"
	"github.com/cleared-dev/recon/internal/importer"
	"github.com/cleared-dev/recon/internal/logging"
	"github.com/cleared-dev/recon/internal/model"
	"github.com/cleared-dev/recon/internal/reviewlog"
	"github.com/cleared-dev/recon/internal/suggest"
	"github.com/cleared-dev/recon/internal/tablesort"
)

// suggestionHeader is the header row of every suggestion table.
var suggestionHeader = tablesort.Cells{"line", "batch", "date", "amount", "type"}

func newReviewCommand() *cobra.Command {
	var repoDir string
	var keep bool

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Suggest batch payments for imported statement lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(repoDir, keep, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "review repo directory")
	cmd.Flags().BoolVar(&keep, "keep", false, "leave statement files in import/")

	return cmd
}

func runReview(repoDir string, keep bool, out, errOut io.Writer) error {
	repoRoot, cfg, logger, err := loadRepo(repoDir, errOut)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	log := logging.WithSystem(logger, "review")

	files, err := importer.Scan(repoRoot)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No statement files in import/")
		return nil
	}

	batches, err := batch.Load(repoRoot)
	if err != nil {
		return err
	}
	candidates, err := batch.Candidates(batches, cfg)
	if err != nil {
		return fmt.Errorf("building suggestions: %w", err)
	}
	log.Debug("loaded batch payments", zap.Int("batches", len(candidates)))

	reg := importer.DefaultRegistry()
	now := time.Now()
	var entries []reviewlog.Entry
	var written []string
	reviewed := 0

	for _, f := range files {
		st, err := reg.ParseFile(cfg, f)
		if errors.Is(err, importer.ErrNoJournal) {
			log.Warn("skipping statement file", zap.String("file", f.Name), zap.Error(err))
			continue
		}
		if err != nil {
			return err
		}

		entries = append(entries, reviewlog.Entry{
			Timestamp: now,
			Action:    reviewlog.ActionImport,
			Reference: f.Name,
			Count:     len(st.Lines),
			Details:   fmt.Sprintf("journal %d (%s)", st.Journal.ID, st.Journal.Name),
		})

		table := tablesort.Table{Header: suggestionHeader}
		suggested := 0
		for _, line := range st.Lines {
			res := suggest.Apply(&line, candidates)

			action := reviewlog.ActionSuggest
			if res.FellBack {
				action = reviewlog.ActionFallback
				log.Info("no batch matched, showing all",
					zap.String("line", line.Reference),
					zap.String("amount", line.Amount.StringFixed(2)))
			}
			entries = append(entries, reviewlog.Entry{
				Timestamp: now,
				Action:    action,
				Reference: line.Reference,
				Count:     len(res.Payments),
				Details:   describeRules(res.Payments),
			})

			for _, p := range res.Payments {
				table.Rows = append(table.Rows, suggestionRow(line, p))
			}
			suggested += len(res.Payments)
		}

		tablePath := filepath.Join(repoRoot, "tables", f.Name)
		if err := writeTable(tablePath, table); err != nil {
			return err
		}
		written = append(written, "tables/"+f.Name)
		log.Info("wrote suggestion table",
			zap.String("file", f.Name),
			zap.Int("lines", len(st.Lines)),
			zap.Int("suggestions", suggested))
		fmt.Fprintf(out, "%s: %d lines, %d suggestions -> %s\n",
			f.Name, len(st.Lines), suggested, filepath.Join("tables", f.Name))

		if !keep {
			if err := importer.MarkProcessed(repoRoot, f.Name); err != nil {
				return err
			}
		}
		reviewed++
	}

	if err := forgetSortState(repoRoot, written); err != nil {
		log.Warn("failed to reset sort state", zap.Error(err))
	}
	if err := reviewlog.Append(repoRoot, entries); err != nil {
		log.Warn("failed to write review log", zap.Error(err))
	}

	if cfg.Git.AutoCommit && gitops.IsRepo(repoRoot) {
		msg := fmt.Sprintf("review: Suggest batches for %d statement file(s)", reviewed)
		hash, err := gitops.CommitAll(repoRoot, msg, author(cfg.Git))
		if err != nil {
			return err
		}
		if hash != "" {
			log.Info("committed review", zap.String("commit", hash))
		}
	}
	return nil
}

// suggestionRow renders one suggestion the way the review screen shows it.
func suggestionRow(line model.StatementLine, p model.BatchPayment) tablesort.Cells {
	name := p.Name
	if name == "" {
		name = p.ID
	}
	date := ""
	if !p.Date.IsZero() {
		date = p.Date.Format("01/02/2006")
	}
	return tablesort.Cells{line.Reference, name, date, formatCurrency(p.FilterAmount), string(p.Type)}
}

// describeRules summarizes the rule each suggestion was judged by, e.g. "amount+type=2".
func describeRules(payments []model.BatchPayment) string {
	counts := make(map[suggest.Rule]int)
	for _, p := range payments {
		counts[suggest.RuleFor(p)]++
	}
	var parts []string
	for _, r := range []suggest.Rule{suggest.RuleBoth, suggest.RuleAmountOnly, suggest.RuleTypeOnly, suggest.RuleNone} {
		if counts[r] > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", r, counts[r]))
		}
	}
	return strings.Join(parts, " ")
}

var printer = message.NewPrinter(language.English)

// formatCurrency renders an amount like "$1,234.56" or "-$12.00".
func formatCurrency(d decimal.Decimal) string {
	r := d.Round(2)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Neg()
	}
	_, cents, _ := strings.Cut(r.StringFixed(2), ".")

	whole := r.Truncate(0)
	if whole.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return sign + "$" + r.StringFixed(2)
	}
	return sign + "$" + printer.Sprintf("%d", whole.IntPart()) + "." + cents
}

// writeTable replaces the table at path. Rows go to a temp file in the same
// directory first, so a failed write leaves the old table in place.
func writeTable(path string, t tablesort.Table) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating tables dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating table %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err := tablesort.WriteTable(f, t); err != nil {
		return fmt.Errorf("writing table %s: %w", path, err)
	}
	if err := f.Chmod(0o644); err != nil {
		return fmt.Errorf("writing table %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing table %s: %w", path, err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("replacing table %s: %w", path, err)
	}
	return nil
}
