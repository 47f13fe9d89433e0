// Command menu-ingest merges gzipped JSON-lines menu exports into the
// single catalog file the server embeds. Each input line is one menu item
// object; when the same item id appears in several exports, the earliest
// file on the command line wins.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/laxmiresto/website/internal/menu"
)

const progressEvery = 1000

func main() {
	var out string
	flag.StringVar(&out, "out", "internal/menu/data/menu.json", "path of the merged catalog file")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		slog.Error("at least one export file is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, files, out); err != nil {
		slog.Error("menu ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("menu ingest completed successfully", slog.String("out", out))
}

func run(ctx context.Context, files []string, out string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	results := make([][]menu.Item, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(scanExportFile(ctx, i, f, results))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Merge in command line order so the first occurrence of an id wins.
	var merged []menu.Item
	seen := make(map[string]struct{})
	for _, items := range results {
		for _, item := range items {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			merged = append(merged, item)
		}
	}

	slog.Info("merged catalog", slog.Int("items", len(merged)))
	return writeCatalog(out, merged)
}

func scanExportFile(ctx context.Context, idx int, path string, results [][]menu.Item) func() error {
	return func() error {
		var items []menu.Item
		var count int

		if err := streamGzFile(ctx, path, func(line []byte) error {
			item, err := menu.ParseItem(line)
			if err != nil {
				return errors.Wrapf(err, "line %d", count+1)
			}
			items = append(items, item)
			count++
			if count%progressEvery == 0 {
				slog.Info("scan progress", slog.String("file", path), slog.Int("items", count))
			}
			return nil
		}); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("scan complete", slog.String("file", path), slog.Int("items", count))
		results[idx] = items
		return nil
	}
}

// streamGzFile opens a gzip-compressed file and calls fn for each
// non-empty line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	return errors.Wrapf(scanner.Err(), "scan %s", path)
}

func writeCatalog(path string, items []menu.Item) error {
	var e jx.Encoder
	e.SetIdent(2)
	e.Arr(func(e *jx.Encoder) {
		for _, item := range items {
			encodeItem(e, item)
		}
	})

	if err := os.WriteFile(path, e.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func encodeItem(e *jx.Encoder, item menu.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(item.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
		e.Field("price", func(e *jx.Encoder) { e.RawStr(item.Price.String()) })
		e.Field("image", func(e *jx.Encoder) { e.Str(item.Image) })
		e.Field("category", func(e *jx.Encoder) { e.Str(item.Category) })
		e.Field("description", func(e *jx.Encoder) { e.Str(item.Description) })
		e.Field("prepTime", func(e *jx.Encoder) { e.Str(item.PrepTime) })
		e.Field("veg", func(e *jx.Encoder) { e.Bool(item.Veg) })
	})
}
