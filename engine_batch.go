package astindex

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/tmoore/astindex/internal/enumerate"
	"github.com/tmoore/astindex/internal/extract"
	"github.com/tmoore/astindex/internal/store"
)

// indexFiles extracts and commits the given files in enumeration order,
// one transaction per chunk. Extraction within a chunk runs on a worker
// pool; commits are serial. A file that fails to read or parse lands in
// report.Failed and the run continues.
func (e *Engine) indexFiles(ctx context.Context, files []enumerate.FileMeta, report *Report) error {
	for start := 0; start < len(files); start += e.chunkSize {
		end := min(start+e.chunkSize, len(files))
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.indexChunk(ctx, files[start:end], report); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) indexChunk(ctx context.Context, chunk []enumerate.FileMeta, report *Report) error {
	extractions := make([]*store.FileExtraction, len(chunk))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, fm := range chunk {
		i, fm := i, fm
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if fm.Size > e.maxFileSize {
				mu.Lock()
				report.SkippedLarge++
				mu.Unlock()
				return nil
			}
			fe, err := e.extractFile(fm)
			if err != nil {
				mu.Lock()
				report.Failed = append(report.Failed, FileError{Path: fm.Path, Err: err.Error()})
				mu.Unlock()
				return nil
			}
			extractions[i] = fe
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Compact while preserving enumeration order.
	commit := extractions[:0]
	for _, fe := range extractions {
		if fe != nil {
			commit = append(commit, fe)
		}
	}
	if err := e.store.CommitChunk(commit); err != nil {
		return fmt.Errorf("commit chunk: %w", err)
	}
	report.Indexed += len(commit)
	return nil
}

// extractFile reads and extracts one file into a commit-ready record.
// Pure CPU plus one read, safe to run on any worker.
func (e *Engine) extractFile(fm enumerate.FileMeta) (*store.FileExtraction, error) {
	ex, ok := extract.ForPath(fm.Path)
	if !ok {
		return nil, fmt.Errorf("no extractor for %s", fm.Path)
	}
	content, err := os.ReadFile(fm.Path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	res, err := ex.Extract(fm.Path, content)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	fe := &store.FileExtraction{
		File: store.File{
			Path:     fm.Path,
			Language: ex.Language(),
			Mtime:    fm.Mtime,
			Size:     fm.Size,
			Hash:     fmt.Sprintf("%016x", xxhash.Sum64(content)),
		},
	}
	for _, sym := range res.Symbols {
		es := store.ExtractedSymbol{Symbol: store.Symbol{
			Name:      sym.Name,
			Kind:      sym.Kind,
			Line:      sym.Line,
			Signature: sym.Signature,
		}}
		for _, p := range sym.Parents {
			es.Parents = append(es.Parents, store.ParentLink{ParentName: p.ParentName, Kind: p.Kind})
		}
		fe.Symbols = append(fe.Symbols, es)
	}
	for _, ref := range res.References {
		fe.Refs = append(fe.Refs, store.Reference{Name: ref.Name, Line: ref.Line, Context: ref.Context})
	}
	for _, u := range res.XMLUsages {
		fe.XMLUsages = append(fe.XMLUsages, store.XMLUsage{ClassName: u.ClassName, Line: u.Line})
	}
	for _, r := range res.Resources {
		fe.Resources = append(fe.Resources, store.Resource{ResType: r.ResType, Name: r.Name})
	}
	for _, ru := range res.ResourceUsages {
		fe.ResourceUsages = append(fe.ResourceUsages, store.ResourceUsage{ResType: ru.ResType, Name: ru.Name, Line: ru.Line})
	}
	return fe, nil
}
