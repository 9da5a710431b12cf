package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/mesofi/mythcloth/internal/catalog"
	"github.com/mesofi/mythcloth/internal/figurine"
	"github.com/mesofi/mythcloth/internal/logging"
)

// contextCheckInterval is how often (in rows) cancellation is checked.
const contextCheckInterval = 100

// Store is the persistence collaborator: it supplies the catalog snapshot
// at the start of a run and accepts the finished batch at the end.
type Store interface {
	LoadSnapshot(ctx context.Context) (*catalog.Snapshot, error)
	UpsertFigurines(ctx context.Context, batch []*figurine.Figurine) (inserted, updated int, err error)
}

// Result summarizes one completed run.
type Result struct {
	RunID     string
	SourceID  string
	Rows      int
	Inserted  int
	Updated   int
	BytesRead int64
	Duration  time.Duration
}

// Importer drives one import run end to end. Runs are synchronous and
// single-threaded; concurrent runs must be serialized by the caller.
type Importer struct {
	store  Store
	source Source
}

// New wires an importer to its collaborators.
func New(store Store, source Source) *Importer {
	return &Importer{store: store, source: source}
}

// Run imports the sheet identified by sourceID: loads the catalog snapshot,
// streams the CSV, builds one record per data row, and submits the whole
// batch as a single upsert. A resolution failure on any row aborts the run
// before anything is written.
func (imp *Importer) Run(ctx context.Context, sourceID string) (Result, error) {
	runID := uuid.NewString()
	log := logging.WithFields(ctx, "run_id", runID, "source_id", sourceID)
	start := time.Now()

	result := Result{RunID: runID, SourceID: sourceID}

	snap, err := imp.store.LoadSnapshot(ctx)
	if err != nil {
		return result, fmt.Errorf("load catalog snapshot: %w", err)
	}

	body, err := imp.source.Open(ctx, sourceID)
	if err != nil {
		return result, err
	}
	defer body.Close()

	counting := &countingReader{reader: newBOMSkippingReader(body)}
	reader := csv.NewReader(counting)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return result, errors.New("source is empty")
		}
		return result, fmt.Errorf("read header: %w", err)
	}

	idx := MakeHeaderIndex(header)
	if err := ValidateHeader(idx); err != nil {
		return result, err
	}

	log.Info("import started", "columns", len(header))

	var batch []*figurine.Figurine
	line := 1 // header is line 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("read line %d: %w", line+1, err)
		}
		line++

		if len(batch)%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return result, fmt.Errorf("run cancelled at line %d: %w", line, err)
			}
		}

		if Empty(record) {
			continue
		}

		f, err := BuildFigurine(snap, ParseRow(record, idx))
		if err != nil {
			return result, fmt.Errorf("line %d: %w", line, err)
		}
		batch = append(batch, f)
	}

	result.Rows = len(batch)
	result.BytesRead = counting.bytesRead

	inserted, updated, err := imp.store.UpsertFigurines(ctx, batch)
	if err != nil {
		return result, fmt.Errorf("persist batch: %w", err)
	}
	result.Inserted = inserted
	result.Updated = updated
	result.Duration = time.Since(start)

	log.Info("import finished",
		"rows", result.Rows,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"bytes", result.BytesRead,
		"duration", result.Duration,
	)

	return result, nil
}
