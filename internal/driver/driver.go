// Package driver ties a study to its on-disk cache and its plots: compute or
// reuse the data file, then show and save the plot.
package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sgostarter/i/l"

	"github.com/san-kum/datac/internal/datac"
	"github.com/san-kum/datac/internal/plot"
	"github.com/san-kum/datac/internal/storage"
	"github.com/san-kum/datac/internal/study"
)

var (
	ErrCacheMismatch = errors.New("driver: cached data was computed from different arguments")
	ErrNoOrdinates   = errors.New("driver: data has no ordinates")
)

// DisplayFunc shows a series on screen and returns once it is dismissed.
type DisplayFunc func(ctx context.Context, s plot.Series) error

type Options struct {
	// Name is the dataset and plot file name. Empty means NameRoot of the
	// study name.
	Name  string
	Study study.Study
	Setup study.Setup

	// Store is reused across runs when set; otherwise Run opens DataDir.
	Store    *storage.Store
	DataDir  string
	PlotDir  string
	PlotType string

	Clobber   bool
	NoDisplay bool

	Display DisplayFunc
	Logger  l.Wrapper
}

// Outcome describes what Run did.
type Outcome struct {
	Name     string
	Reused   bool
	DataPath string
	PlotPath string
	Document *storage.Document
}

// NameRoot strips a leading "plot" prefix, a file extension and
// surrounding underscores: "plot_box_volume.go" becomes "box_volume".
func NameRoot(prog string) string {
	name := filepath.Base(prog)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.TrimPrefix(name, "plot")
	return strings.Trim(name, "_")
}

func Run(ctx context.Context, opts Options) (*Outcome, error) {
	if opts.Study == nil {
		return nil, study.ErrUnknownStudy
	}

	logger := opts.Logger
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	name := opts.Name
	if name == "" {
		name = NameRoot(opts.Study.Name())
	}
	logger = logger.WithFields(l.StringField(l.ClsKey, "driver"), l.StringField("name", name))

	values, err := opts.Setup.Sweep.Values()
	if err != nil {
		return nil, err
	}
	candidate := datac.GenerateSweep(opts.Setup.Params, values, opts.Setup.AbscissaName)

	store := opts.Store
	if store == nil {
		store = storage.New(opts.DataDir, logger)
	}
	out := &Outcome{Name: name, DataPath: store.Path(name)}

	if !opts.Clobber && store.Exists(name) {
		doc, err := store.Load(name)
		if err != nil {
			return nil, err
		}
		if !candidate.Matches(doc.Sweep()) {
			logger.WithFields(l.StringField("path", out.DataPath)).Error("cache mismatch, rerun with clobber to recompute")
			return nil, fmt.Errorf("%w: %s", ErrCacheMismatch, out.DataPath)
		}
		logger.Info("reusing cached data")
		out.Reused = true
		out.Document = doc
	} else {
		logger.WithFields(l.IntField("points", len(values))).Info("computing")
		rec, err := study.NewRecord(opts.Study, opts.Setup)
		if err != nil {
			return nil, err
		}
		if out.DataPath, err = store.Save(name, rec); err != nil {
			return nil, err
		}
		if out.Document, err = store.Load(name); err != nil {
			return nil, err
		}
	}

	series, err := SeriesOf(name, out.Document)
	if err != nil {
		return nil, err
	}

	if !opts.NoDisplay {
		display := opts.Display
		if display == nil {
			display = func(ctx context.Context, s plot.Series) error {
				return plot.Display(ctx, s)
			}
		}
		if err := display(ctx, series); err != nil {
			return nil, err
		}
	}

	if opts.PlotDir != "" {
		out.PlotPath = filepath.Join(opts.PlotDir, name+"."+opts.PlotType)
		if err := plot.WriteImage(out.PlotPath, series, opts.PlotType); err != nil {
			return nil, err
		}
		logger.WithFields(l.StringField("path", out.PlotPath)).Info("plot written")
	}

	return out, nil
}

// SeriesOf turns a data document into a plottable series.
func SeriesOf(name string, doc *storage.Document) (plot.Series, error) {
	ords, ok := doc.AsOrdinates()
	if !ok {
		return plot.Series{}, fmt.Errorf("%w: %s", ErrNoOrdinates, name)
	}
	ordName := doc.OrdinateName
	if ordName == "" {
		ordName = datac.KeyOrdinates
	}
	return plot.NewSeries(name, doc.AbscissaName, ordName, doc.Abscissae, ords), nil
}
