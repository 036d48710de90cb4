package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/recon/internal/config"
	"github.com/cleared-dev/recon/internal/id"
	"github.com/cleared-dev/recon/internal/model"
)

// ErrNoJournal is returned for an import file no configured journal claims.
var ErrNoJournal = errors.New("no journal for file")

// Parser converts a bank CSV export into statement lines for one journal.
type Parser interface {
	Parse(r io.Reader, journalID int) ([]model.StatementLine, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a statement CSV waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Statement is one parsed import file.
type Statement struct {
	File    FileInfo
	Journal config.Journal
	Lines   []model.StatementLine
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&GenericParser{})
	return r
}

const (
	importDir    = "import"
	processedDir = "import/processed"
)

// Scan returns statement CSV files in <repoRoot>/import/, in name order.
func Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ParseFile parses f with the parser of the journal that claims it.
func (r *Registry) ParseFile(cfg *config.Config, f FileInfo) (Statement, error) {
	j, ok := cfg.JournalForFile(f.Name)
	if !ok {
		return Statement{}, fmt.Errorf("%w: %s", ErrNoJournal, f.Name)
	}

	p := r.Get(j.Format)
	if p == nil {
		return Statement{}, fmt.Errorf("journal %q: unknown format %q", j.Name, j.Format)
	}

	fh, err := os.Open(f.Path)
	if err != nil {
		return Statement{}, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer fh.Close()

	lines, err := p.Parse(fh, j.ID)
	if err != nil {
		return Statement{}, fmt.Errorf("parsing %s: %w", f.Name, err)
	}

	var refs id.Refs
	for i := range lines {
		lines[i].Reference = refs.Next(lines[i].Reference)
	}
	return Statement{File: f, Journal: j, Lines: lines}, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
