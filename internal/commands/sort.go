package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/recon/internal/logging"
	"github.com/cleared-dev/recon/internal/reviewlog"
	"github.com/cleared-dev/recon/internal/tablesort"
)

// defaultStateFile holds the sort state shared by the suggestion tables.
const defaultStateFile = "tables/.sort-state.yaml"

func newSortCommand() *cobra.Command {
	var repoDir string
	var statePath string
	var column int
	var sortType string

	cmd := &cobra.Command{
		Use:   "sort <table.csv>...",
		Short: "Sort suggestion tables by a column, toggling direction on repeat",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vt, err := tablesort.ParseValueType(sortType)
			if err != nil {
				return err
			}
			if column < 0 {
				return fmt.Errorf("column must be >= 0, got %d", column)
			}
			col := tablesort.Column{Index: column, Type: vt}
			return runSort(repoDir, statePath, args, col, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "review repo directory")
	cmd.Flags().StringVar(&statePath, "state", "", "sort state file (default <repo>/"+defaultStateFile+")")
	cmd.Flags().IntVar(&column, "column", 0, "zero-based column index")
	cmd.Flags().StringVar(&sortType, "type", "text", "column type: number, currency, date or text")

	return cmd
}

func runSort(repoDir, statePath string, paths []string, col tablesort.Column, out, errOut io.Writer) error {
	repoRoot, _, logger, err := loadRepo(repoDir, errOut)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	log := logging.WithSystem(logger, "sort")

	if statePath == "" {
		statePath = filepath.Join(repoRoot, defaultStateFile)
	}
	states, err := loadStates(statePath)
	if err != nil {
		return err
	}
	key, err := tableKey(repoRoot, paths)
	if err != nil {
		return err
	}
	state := states.get(key)

	tables := make([]tablesort.Table, len(paths))
	view := tablesort.View[tablesort.Cells]{Visible: true, State: state}
	for i, p := range paths {
		t, err := readTable(p)
		if err != nil {
			return err
		}
		tables[i] = t
		view.Tables = append(view.Tables, t.Rows)
	}

	if !view.Sort(col) {
		log.Debug("nothing to sort")
		return nil
	}

	dir := view.State.DirectionOf(col.Index)
	now := time.Now()
	var entries []reviewlog.Entry
	for i, p := range paths {
		tables[i].Rows = view.Tables[i]
		if err := writeTable(p, tables[i]); err != nil {
			return err
		}
		entries = append(entries, reviewlog.Entry{
			Timestamp: now,
			Action:    reviewlog.ActionSort,
			Reference: p,
			Count:     len(tables[i].Rows),
			Details:   fmt.Sprintf("column %d %s %s", col.Index, col.Type, dir),
		})
	}

	states.put(key, view.State)
	states.prune(repoRoot)
	if err := saveStates(statePath, states); err != nil {
		return err
	}

	log.Info("sorted tables",
		zap.Int("tables", len(paths)),
		zap.Int("column", col.Index),
		zap.String("type", string(col.Type)),
		zap.String("direction", string(dir)))
	fmt.Fprintln(out, headerLine(tables[0].Header, view.State))

	if err := reviewlog.Append(repoRoot, entries); err != nil {
		log.Warn("failed to write review log", zap.Error(err))
	}
	return nil
}

// headerLine renders a header row with the sort indicator next to the sorted column.
func headerLine(header tablesort.Cells, state tablesort.State) string {
	cells := make([]string, len(header))
	for i, h := range header {
		if ind := state.Indicator(i); ind != "" {
			h += " " + ind
		}
		cells[i] = h
	}
	return strings.Join(cells, " | ")
}

func readTable(path string) (tablesort.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return tablesort.Table{}, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	t, err := tablesort.ReadTable(f)
	if err != nil {
		return tablesort.Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// sortStates is the sort state file. Each set of tables sorted together
// keeps its own state, which goes away when one of its tables does.
type sortStates struct {
	Views []viewState `yaml:"views"`
}

type viewState struct {
	Tables          []string `yaml:"tables"`
	tablesort.State `yaml:",inline"`
}

func (s *sortStates) get(key []string) tablesort.State {
	for _, v := range s.Views {
		if slices.Equal(v.Tables, key) {
			return v.State
		}
	}
	return tablesort.State{}
}

func (s *sortStates) put(key []string, st tablesort.State) {
	for i := range s.Views {
		if slices.Equal(s.Views[i].Tables, key) {
			s.Views[i].State = st
			return
		}
	}
	s.Views = append(s.Views, viewState{Tables: key, State: st})
}

// forget drops every view that includes one of tables.
func (s *sortStates) forget(tables []string) {
	s.Views = slices.DeleteFunc(s.Views, func(v viewState) bool {
		for _, t := range v.Tables {
			if slices.Contains(tables, t) {
				return true
			}
		}
		return false
	})
}

// prune drops views whose tables no longer exist.
func (s *sortStates) prune(repoRoot string) {
	s.Views = slices.DeleteFunc(s.Views, func(v viewState) bool {
		for _, t := range v.Tables {
			p := t
			if !filepath.IsAbs(p) {
				p = filepath.Join(repoRoot, p)
			}
			if _, err := os.Stat(p); err != nil {
				return true
			}
		}
		return false
	})
}

// tableKey names a set of tables independent of argument order: paths inside
// the repo are repo-relative, the rest absolute.
func tableKey(repoRoot string, paths []string) ([]string, error) {
	key := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		if rel, err := filepath.Rel(repoRoot, abs); err == nil && !strings.HasPrefix(rel, "..") {
			abs = filepath.ToSlash(rel)
		}
		key = append(key, abs)
	}
	slices.Sort(key)
	return slices.Compact(key), nil
}

// forgetSortState drops the default sort state of tables that were rewritten
// from scratch. tables are repo-relative.
func forgetSortState(repoRoot string, tables []string) error {
	path := filepath.Join(repoRoot, defaultStateFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	states, err := loadStates(path)
	if err != nil {
		return err
	}
	before := len(states.Views)
	states.forget(tables)
	if len(states.Views) == before {
		return nil
	}
	return saveStates(path, states)
}

func loadStates(path string) (*sortStates, error) {
	s := &sortStates{}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading sort state: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing sort state: %w", err)
	}
	return s, nil
}

func saveStates(path string, s *sortStates) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling sort state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing sort state: %w", err)
	}
	return nil
}
