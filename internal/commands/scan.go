// Package commands walks a project tree to build the file selection and reads
// the selected files for assembly.
package commands

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/codegather/internal/patterns"
	"github.com/temirov/codegather/internal/types"
)

const (
	relativeSeparator = "/"

	warningReadDirectoryMessage = "skipping unreadable directory"
	warningStatMessage          = "unable to stat entry"
	warningBrokenLinkMessage    = "skipping broken symbolic link"
	warningLinkCycleMessage     = "skipping symbolic link that loops back into the traversal"
	rootNotDirectoryMessage     = "root is not a directory"
	rootUnreadableMessage       = "root cannot be read"
)

// ScanOptions configures one traversal.
type ScanOptions struct {
	Root  string
	Rules patterns.Rules
	// SkipPaths are absolute file paths that are never selected, such as the
	// artifact being written.
	SkipPaths []string
	Threshold int
	Logger    *zap.Logger
}

// ScanResult is the sorted selection plus everything noticed on the way.
type ScanResult struct {
	Entries           []types.SelectionEntry
	Warnings          []types.Warning
	ThresholdExceeded bool
}

type scanner struct {
	options   ScanOptions
	logger    *zap.Logger
	skipPaths map[string]struct{}
	result    ScanResult
}

// Scan walks options.Root depth-first and returns every regular file the rules
// include, sorted by relative path. Excluded directories are pruned before
// they are read.
func Scan(ctx context.Context, options ScanOptions) (ScanResult, error) {
	absoluteRoot, absoluteError := filepath.Abs(options.Root)
	if absoluteError != nil {
		return ScanResult{}, types.WrapError(absoluteError, types.ErrorCodeRootNotFound, options.Root, rootUnreadableMessage)
	}
	rootInfo, statError := os.Stat(absoluteRoot)
	if statError != nil {
		return ScanResult{}, types.WrapError(statError, types.ErrorCodeRootNotFound, absoluteRoot, rootUnreadableMessage)
	}
	if !rootInfo.IsDir() {
		return ScanResult{}, types.NewError(types.ErrorCodeRootNotFound, absoluteRoot, rootNotDirectoryMessage)
	}
	realRoot, realError := filepath.EvalSymlinks(absoluteRoot)
	if realError != nil {
		return ScanResult{}, types.WrapError(realError, types.ErrorCodeRootNotFound, absoluteRoot, rootUnreadableMessage)
	}

	walker := &scanner{
		options:   options,
		logger:    options.Logger,
		skipPaths: make(map[string]struct{}, len(options.SkipPaths)),
	}
	if walker.logger == nil {
		walker.logger = zap.NewNop()
	}
	for _, skipPath := range options.SkipPaths {
		if skipPath == "" {
			continue
		}
		if absoluteSkipPath, skipError := filepath.Abs(skipPath); skipError == nil {
			walker.skipPaths[absoluteSkipPath] = struct{}{}
		}
	}

	traversal := map[string]struct{}{realRoot: {}}
	if walkError := walker.walkDirectory(ctx, absoluteRoot, "", traversal); walkError != nil {
		if ctx.Err() != nil {
			return walker.result, walkError
		}
		return walker.result, types.WrapError(walkError, types.ErrorCodeRootNotFound, absoluteRoot, rootUnreadableMessage)
	}

	sort.Slice(walker.result.Entries, func(left, right int) bool {
		return walker.result.Entries[left].RelativePath < walker.result.Entries[right].RelativePath
	})
	threshold := options.Threshold
	walker.result.ThresholdExceeded = threshold > 0 && len(walker.result.Entries) > threshold
	return walker.result, nil
}

// walkDirectory visits one directory. traversal holds the real paths of the
// directories on the current descent so looping links can be detected.
func (walker *scanner) walkDirectory(ctx context.Context, directoryPath string, relativeDirectory string, traversal map[string]struct{}) error {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return readError
	}

	for _, directoryEntry := range directoryEntries {
		if contextError := ctx.Err(); contextError != nil {
			return contextError
		}

		childPath := filepath.Join(directoryPath, directoryEntry.Name())
		relativePath := directoryEntry.Name()
		if relativeDirectory != "" {
			relativePath = relativeDirectory + relativeSeparator + directoryEntry.Name()
		}

		targetPath := childPath
		if directoryEntry.Type()&os.ModeSymlink != 0 {
			resolvedPath, resolveError := filepath.EvalSymlinks(childPath)
			if resolveError != nil {
				walker.warn(relativePath, warningBrokenLinkMessage)
				continue
			}
			targetPath = resolvedPath
		}

		entryInfo, infoError := os.Stat(targetPath)
		if infoError != nil {
			walker.warn(relativePath, warningStatMessage+": "+infoError.Error())
			continue
		}

		if entryInfo.IsDir() {
			if patterns.DirectoryExcluded(relativePath, walker.options.Rules.Exclude) {
				walker.logger.Debug("pruned directory", zap.String("path", relativePath))
				continue
			}
			if descendError := walker.descend(ctx, childPath, targetPath, relativePath, traversal); descendError != nil {
				return descendError
			}
			continue
		}

		if !entryInfo.Mode().IsRegular() {
			walker.logger.Debug("skipped special file", zap.String("path", relativePath))
			continue
		}
		walker.considerFile(childPath, relativePath, entryInfo.Size())
	}
	return nil
}

func (walker *scanner) descend(ctx context.Context, childPath string, targetPath string, relativePath string, traversal map[string]struct{}) error {
	realPath, realError := filepath.EvalSymlinks(targetPath)
	if realError != nil {
		walker.warn(relativePath, warningStatMessage+": "+realError.Error())
		return nil
	}
	if _, onPath := traversal[realPath]; onPath {
		walker.warn(relativePath, warningLinkCycleMessage)
		return nil
	}
	traversal[realPath] = struct{}{}
	defer delete(traversal, realPath)

	if walkError := walker.walkDirectory(ctx, childPath, relativePath, traversal); walkError != nil {
		if contextError := ctx.Err(); contextError != nil {
			return contextError
		}
		walker.warn(relativePath, warningReadDirectoryMessage+": "+walkError.Error())
	}
	return nil
}

func (walker *scanner) considerFile(childPath string, relativePath string, sizeBytes int64) {
	if _, skipped := walker.skipPaths[filepath.Clean(childPath)]; skipped {
		walker.logger.Debug("skipped generated or configuration file", zap.String("path", relativePath))
		return
	}
	if patterns.Decide(relativePath, walker.options.Rules) != patterns.DecisionInclude {
		return
	}
	walker.result.Entries = append(walker.result.Entries, types.SelectionEntry{
		RelativePath: relativePath,
		AbsolutePath: childPath,
		Included:     true,
		SizeBytes:    sizeBytes,
	})
}

func (walker *scanner) warn(relativePath string, message string) {
	walker.result.Warnings = append(walker.result.Warnings, types.Warning{Path: relativePath, Message: message})
	walker.logger.Debug("scan warning", zap.String("path", relativePath), zap.String("reason", message))
}
