package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"

	"github.com/hupe1980/bisect"
	"github.com/hupe1980/bisect/internal/conv"
	"github.com/hupe1980/bisect/internal/source"
)

var indexSchema = arrow.NewSchema([]arrow.Field{
	{Name: "index", Type: arrow.PrimitiveTypes.Uint64},
}, nil)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// env carries the state set up by the global flags.
type env struct {
	logger    *bisect.Logger
	metrics   *bisect.BasicMetricsCollector
	searcher  *bisect.Searcher
	pool      *ants.Pool
	allocator memory.Allocator
}

func newApp() *cli.App {
	e := &env{allocator: memory.DefaultAllocator}

	return &cli.App{
		Name:  "bisect",
		Usage: "Lower-bound search over sorted numeric files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"BISECT_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log output format (text, json)",
				Value:   "text",
				EnvVars: []string{"BISECT_LOG_FORMAT"},
			},
			&cli.IntFlag{
				Name:    "parallelism",
				Aliases: []string{"p"},
				Usage:   "Maximum concurrent chunks per batch (0 = GOMAXPROCS)",
				EnvVars: []string{"BISECT_PARALLELISM"},
			},
			&cli.Int64Flag{
				Name:    "memory-limit",
				Usage:   "Byte budget for batch result buffers (0 = unlimited)",
				EnvVars: []string{"BISECT_MEMORY_LIMIT"},
			},
			&cli.IntFlag{
				Name:    "pool-size",
				Usage:   "Run batch chunks on a shared worker pool of this size (0 = per-call goroutines)",
				EnvVars: []string{"BISECT_POOL_SIZE"},
			},
		},
		Before: e.setup,
		After:  e.teardown,
		Commands: []*cli.Command{
			{
				Name:   "search",
				Usage:  "Print the insertion index of one value",
				Action: e.searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Sorted source file (.npy, .arrow, text; optionally .zst/.lz4)",
						Required: true,
					},
					&cli.Float64Flag{
						Name:     "value",
						Aliases:  []string{"v"},
						Usage:    "Value to locate",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "column",
						Usage: "Arrow source column name",
					},
				},
			},
			{
				Name:   "batch",
				Usage:  "Locate every target value, in target order",
				Action: e.batchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Sorted source file (.npy, .arrow, text; optionally .zst/.lz4)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "targets",
						Aliases:  []string{"t"},
						Usage:    "Target values file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "column",
						Usage: "Arrow source column name",
					},
					&cli.StringFlag{
						Name:  "targets-column",
						Usage: "Arrow targets column name",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Write indices as an Arrow IPC stream instead of printing them",
					},
					&cli.StringFlag{
						Name:  "compression",
						Usage: "Arrow IPC body compression for --out (zstd, lz4)",
					},
				},
			},
		},
	}
}

func (e *env) setup(c *cli.Context) error {
	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}

	switch format := strings.ToLower(c.String("log-format")); format {
	case "text":
		e.logger = bisect.NewTextLogger(c.App.ErrWriter, level)
	case "json":
		e.logger = bisect.NewJSONLogger(c.App.ErrWriter, level)
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", format)
	}
	slog.SetDefault(e.logger.Logger)

	if size := c.Int("pool-size"); size > 0 {
		if e.pool, err = ants.NewPool(size); err != nil {
			return fmt.Errorf("create worker pool: %w", err)
		}
	}

	e.metrics = &bisect.BasicMetricsCollector{}
	e.searcher = bisect.New(
		bisect.WithLogger(e.logger),
		bisect.WithMetricsCollector(e.metrics),
		bisect.WithParallelism(c.Int("parallelism")),
		bisect.WithMemoryLimit(c.Int64("memory-limit")),
		bisect.WithWorkerPool(e.pool),
		bisect.WithAllocator(e.allocator),
	)

	return nil
}

func (e *env) teardown(_ *cli.Context) error {
	if e.pool != nil {
		e.pool.Release()
		e.pool = nil
	}
	if e.metrics != nil {
		stats := e.metrics.GetStats()
		e.logger.Debug("done",
			"searches", stats.SearchCount,
			"batches", stats.BatchCount,
			"targets", stats.BatchTargets,
			"batch_avg_ns", stats.BatchAvgNanos,
		)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", s)
	}
}

func (e *env) open(path, column string) (*source.Input, error) {
	in, err := source.Open(path, source.Options{Column: column, Allocator: e.allocator, Logger: e.logger.Logger})
	if err != nil {
		return nil, err
	}
	e.logger.Debug("input loaded", "path", path, "format", in.Format.String(), "values", in.Len())
	return in, nil
}

func (e *env) searchCommand(c *cli.Context) error {
	in, err := e.open(c.String("source"), c.String("column"))
	if err != nil {
		return err
	}
	defer in.Close()

	value := c.Float64("value")

	var idx uint64
	switch in.Format {
	case source.FormatNumpy:
		idx, err = e.searcher.BisectArray(in.Dense, value)
	case source.FormatArrow:
		idx, err = e.searcher.BisectColumn(in.Column, value)
	default:
		idx = e.searcher.Bisect(in.Values, value)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.App.Writer, idx)
	return err
}

func (e *env) batchCommand(c *cli.Context) error {
	compression := strings.ToLower(c.String("compression"))
	if compression != "" && compression != "zstd" && compression != "lz4" {
		return fmt.Errorf("invalid compression %q: must be one of zstd, lz4", compression)
	}

	src, err := e.open(c.String("source"), c.String("column"))
	if err != nil {
		return err
	}
	defer src.Close()

	tgt, err := e.open(c.String("targets"), c.String("targets-column"))
	if err != nil {
		return err
	}
	defer tgt.Close()

	col, err := e.batch(c.Context, src, tgt)
	if err != nil {
		return err
	}
	defer col.Release()

	if out := c.String("out"); out != "" {
		if err := writeIndices(out, col, compression, e.allocator); err != nil {
			return err
		}
		e.logger.Info("indices written", "path", out, "rows", col.Len())
		return nil
	}

	return printIndices(c.App.Writer, col.Uint64Values())
}

// batch runs the search on the widest API the two inputs share.
func (e *env) batch(ctx context.Context, src, tgt *source.Input) (*array.Uint64, error) {
	switch {
	case src.Format == source.FormatArrow && tgt.Format == source.FormatArrow:
		return e.searcher.BisectBatchColumns(ctx, src.Column, tgt.Column)
	case src.Format == source.FormatNumpy && tgt.Format == source.FormatNumpy:
		idx, err := e.searcher.BisectBatchArrays(ctx, src.Dense, tgt.Dense)
		if err != nil {
			return nil, err
		}
		return e.toColumn(idx), nil
	}

	s, err := src.Float64s()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Path, err)
	}
	t, err := tgt.Float64s()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tgt.Path, err)
	}

	idx, err := e.searcher.BisectBatch(ctx, s, t)
	if err != nil {
		return nil, err
	}
	return e.toColumn(idx), nil
}

func (e *env) toColumn(idx []uint64) *array.Uint64 {
	b := array.NewUint64Builder(e.allocator)
	defer b.Release()
	b.AppendValues(idx, nil)
	return b.NewUint64Array()
}

func printIndices(w io.Writer, idx []uint64) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, v := range idx {
		buf = strconv.AppendUint(buf[:0], v, 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeIndices(path string, col *array.Uint64, compression string, alloc memory.Allocator) (err error) {
	opts := []ipc.Option{ipc.WithSchema(indexSchema), ipc.WithAllocator(alloc)}
	switch compression {
	case "zstd":
		opts = append(opts, ipc.WithZstd())
	case "lz4":
		opts = append(opts, ipc.WithLZ4())
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := ipc.NewWriter(f, opts...)

	rec := array.NewRecord(indexSchema, []arrow.Array{col}, conv.IntToInt64(col.Len()))
	defer rec.Release()

	if err := w.Write(rec); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return w.Close()
}
