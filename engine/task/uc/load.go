package uc

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/compozy/gantt/engine/task"
	"github.com/compozy/gantt/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

const utf8BOM = "\ufeff"

// LoadTasks reads the CSV source and returns its records in file order.
// Every call re-reads the source.
type LoadTasks struct {
	fs         afero.Fs
	path       string
	normalizer *task.Normalizer
	metrics    *Metrics
}

func NewLoadTasks(fs afero.Fs, path string, normalizer *task.Normalizer, metrics *Metrics) *LoadTasks {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if normalizer == nil {
		normalizer = task.NewNormalizer(nil)
	}
	return &LoadTasks{fs: fs, path: path, normalizer: normalizer, metrics: metrics}
}

func (uc *LoadTasks) Execute(ctx context.Context) ([]task.Record, error) {
	data, err := uc.read()
	if err != nil {
		return nil, err
	}
	header, rows, err := parseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	schema := uc.normalizer.Schema()
	if missing := schema.MissingColumns(header); len(missing) > 0 {
		return nil, &SchemaError{MissingColumns: missing}
	}
	log := logger.FromContext(ctx)
	records := make([]task.Record, 0, len(rows))
	for position, cells := range rows {
		outcome := uc.normalizer.Normalize(toRow(header, cells), position)
		record, ok := outcome.Record()
		if !ok {
			log.Debug("Skipping task row", "position", position, "reason", outcome.Reason())
			uc.metrics.recordSkipped(ctx, outcome.Reason())
			continue
		}
		records = append(records, record)
	}
	uc.metrics.recordLoaded(ctx, len(records))
	log.Debug("Loaded task records", "path", uc.path, "rows", len(rows), "records", len(records))
	return records, nil
}

func (uc *LoadTasks) read() ([]byte, error) {
	info, err := uc.fs.Stat(uc.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrSourceNotFound, uc.path)
		}
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w at %s", ErrSourceNotFound, uc.path)
	}
	data, err := afero.ReadFile(uc.fs, uc.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	if !isText(data) {
		return nil, fmt.Errorf("%w: %s is not a text file", ErrSourceUnreadable, uc.path)
	}
	return data, nil
}

func isText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	for mt := mimetype.Detect(data); mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") {
			return true
		}
	}
	return false
}

func parseCSV(data []byte) ([]string, [][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("no columns to parse from file")
	}
	if err != nil {
		return nil, nil, err
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	var rows [][]string
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if len(cells) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(cells))
		}
		rows = append(rows, cells)
	}
	return header, rows, nil
}

func toRow(header, cells []string) task.Row {
	row := make(task.Row, len(header))
	for i, name := range header {
		if _, dup := row[name]; dup {
			continue
		}
		if i < len(cells) {
			row[name] = cells[i]
		} else {
			row[name] = ""
		}
	}
	return row
}
