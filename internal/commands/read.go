package commands

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/codegather/internal/types"
	"github.com/temirov/codegather/internal/utils"
)

const (
	readWindowMultiplier = 4

	readFailureMessage         = "cannot read file"
	binaryContentMessageFormat = "not a text file (%s)"
	defaultReadWorkers         = 1
)

// FileContent is the outcome of reading one selected file. Err is a FILE_READ
// GatherError when the file is unreadable or not text; Content is empty then.
type FileContent struct {
	Entry    types.SelectionEntry
	Content  []byte
	MimeType string
	Err      error
}

// ReadSelection reads entries with at most workers concurrent reads and calls
// handle for each one in selection order. Reads run ahead of the handler by a
// bounded window. The first handler error or context cancellation stops the run.
func ReadSelection(ctx context.Context, entries []types.SelectionEntry, workers int, handle func(FileContent) error) error {
	if handle == nil {
		return fmt.Errorf("read selection handler is nil")
	}
	if workers <= 0 {
		workers = defaultReadWorkers
	}
	windowSize := workers * readWindowMultiplier

	for windowStart := 0; windowStart < len(entries); windowStart += windowSize {
		windowEnd := windowStart + windowSize
		if windowEnd > len(entries) {
			windowEnd = len(entries)
		}
		window := entries[windowStart:windowEnd]
		results := make([]FileContent, len(window))

		group, groupContext := errgroup.WithContext(ctx)
		group.SetLimit(workers)
		for index, entry := range window {
			index, entry := index, entry
			group.Go(func() error {
				if contextError := groupContext.Err(); contextError != nil {
					return contextError
				}
				results[index] = readEntry(entry)
				return nil
			})
		}
		if waitError := group.Wait(); waitError != nil {
			return waitError
		}

		for _, result := range results {
			if contextError := ctx.Err(); contextError != nil {
				return contextError
			}
			if handleError := handle(result); handleError != nil {
				return handleError
			}
		}
	}
	return nil
}

func readEntry(entry types.SelectionEntry) FileContent {
	data, readError := os.ReadFile(entry.AbsolutePath)
	if readError != nil {
		return FileContent{Entry: entry, Err: types.WrapError(readError, types.ErrorCodeFileRead, entry.RelativePath, readFailureMessage)}
	}
	mimeType := utils.DetectMimeTypeBytes(data)
	if utils.IsBinary(data) {
		return FileContent{
			Entry:    entry,
			MimeType: mimeType,
			Err:      types.NewError(types.ErrorCodeFileRead, entry.RelativePath, binaryContentMessageFormat, mimeType),
		}
	}
	return FileContent{Entry: entry, Content: data, MimeType: mimeType}
}
