package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/plasmidmap/plasmidmap/pkg/annotation"
	"github.com/plasmidmap/plasmidmap/pkg/errors"
	pio "github.com/plasmidmap/plasmidmap/pkg/io"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

// Parse reads the input described by opts into a dataset.
func Parse(ctx context.Context, opts Options) (plasmid.Dataset, error) {
	data, format, err := readInput(opts)
	if err != nil {
		return plasmid.Dataset{}, err
	}
	return parseBytes(ctx, data, format, opts)
}

func parseBytes(ctx context.Context, data []byte, format pio.Format, opts Options) (plasmid.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return plasmid.Dataset{}, err
	}
	ds, err := pio.ReadBytes(data, format, annotation.NewNormalizer(opts.Seed))
	if err != nil {
		return plasmid.Dataset{}, err
	}
	if ds.Name == "" {
		base := filepath.Base(opts.SourceName())
		ds.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return ds, nil
}

// readInput returns the raw bytes and resolved format of the input.
func readInput(opts Options) ([]byte, pio.Format, error) {
	format, err := inputFormat(opts)
	if err != nil {
		return nil, "", err
	}
	if len(opts.Data) > 0 {
		return opts.Data, format, nil
	}
	data, err := os.ReadFile(opts.Path)
	if os.IsNotExist(err) {
		return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", opts.Path)
	}
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", opts.Path)
	}
	return data, format, nil
}

func inputFormat(opts Options) (pio.Format, error) {
	if opts.Format != "" {
		return pio.ParseFormat(opts.Format)
	}
	name := opts.Path
	if name == "" {
		name = opts.Filename
	}
	return pio.DetectFormat(name)
}
