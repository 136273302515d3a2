package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seres-labs/regdash/internal/table"
)

// Model holds the loaded dimensional model. Fact is nil when the fact
// table is not available, which is the one condition surfaced to the end
// user (the pipeline that produces it runs elsewhere and its output is
// not always present).
type Model struct {
	Dims map[string]*table.Table
	Fact *table.Table
}

// Dim returns the named auxiliary table, or nil when it was not loaded.
func (m *Model) Dim(name string) *table.Table {
	if m == nil {
		return nil
	}
	return m.Dims[name]
}

// HasFact reports whether the primary dataset is available and non-empty.
func (m *Model) HasFact() bool {
	return m != nil && !m.Fact.Empty()
}

// Loader reads the gold tables from a list of fallback directories,
// trying each directory in order and, within a directory, .csv before
// .xlsx. All cells load as strings; coercion happens downstream.
type Loader struct {
	dirs  []string
	cache Cache
}

// NewLoader builds a Loader. cache may be nil to disable caching.
func NewLoader(dirs []string, cache Cache) *Loader {
	return &Loader{dirs: dirs, cache: cache}
}

// LoadModel loads every dimension table plus the fact table. Individual
// missing files are not errors; only unreadable or malformed files fail
// the load.
func (l *Loader) LoadModel(ctx context.Context) (*Model, error) {
	m := &Model{Dims: make(map[string]*table.Table, len(DimNames))}
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for _, name := range DimNames {
		g.Go(func() error {
			t, err := l.loadTable(gCtx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			m.Dims[name] = t
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		t, err := l.loadTable(gCtx, FactTable)
		if err != nil {
			return err
		}
		mu.Lock()
		m.Fact = t
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("dataset: model loaded",
		zap.Bool("fact", m.Fact != nil),
		zap.Int("fact_rows", m.Fact.NumRows()),
		zap.Int("dims", countLoaded(m.Dims)),
	)
	return m, nil
}

// loadTable locates one logical table among the fallback directories and
// parses it, applying the alias map. Returns (nil, nil) when no file
// exists anywhere.
func (l *Loader) loadTable(ctx context.Context, name string) (*table.Table, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".csv", ".xlsx"} {
			path := filepath.Join(dir, name+ext)
			info, err := os.Stat(path)
			if err != nil {
				continue
			}

			sig := Signature{Path: path, MTime: info.ModTime().UnixNano(), Size: info.Size()}
			if l.cache != nil {
				cached, ok, err := l.cache.Get(ctx, sig)
				if err != nil {
					zap.L().Warn("dataset: cache get failed", zap.String("path", path), zap.Error(err))
				} else if ok {
					zap.L().Debug("dataset: cache hit", zap.String("path", path))
					return cached, nil
				}
			}

			t, err := parseFile(path, ext)
			if err != nil {
				return nil, err
			}
			t = applyAliases(t, aliasesFor(name))

			if l.cache != nil {
				if err := l.cache.Put(ctx, sig, t); err != nil {
					zap.L().Warn("dataset: cache put failed", zap.String("path", path), zap.Error(err))
				}
			}
			return t, nil
		}
	}
	zap.L().Debug("dataset: table not found", zap.String("table", name), zap.Strings("dirs", l.dirs))
	return nil, nil
}

func parseFile(path, ext string) (*table.Table, error) {
	if ext == ".xlsx" {
		return parseXLSX(path)
	}
	return parseCSV(path)
}

func parseCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return table.New(nil, nil), nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read header %s", path)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: read row %s", path)
		}
		rows = append(rows, record)
	}
	return table.New(header, rows), nil
}

func parseXLSX(path string) (*table.Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return table.New(nil, nil), nil
	}

	sheet := f.Sheets[0]
	var header []string
	var rows [][]string
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if i == 0 {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}
	return table.New(header, rows), nil
}

func countLoaded(dims map[string]*table.Table) int {
	n := 0
	for _, t := range dims {
		if t != nil {
			n++
		}
	}
	return n
}
