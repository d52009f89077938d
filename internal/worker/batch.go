package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zakaut/zakaut/internal/model"
	"github.com/zakaut/zakaut/internal/pipeline"
)

// Extractor defines the interface for extracting one policy set
type Extractor interface {
	RunDir(ctx context.Context, dir string) (*pipeline.RunResult, error)
}

// ExtractJob represents one policy-set extraction job
type ExtractJob struct {
	Dir       string
	Extractor Extractor
}

// Execute executes the extraction job
func (j *ExtractJob) Execute(ctx context.Context) *ExtractResult {
	result, err := j.Extractor.RunDir(ctx, j.Dir)
	if err != nil {
		return &ExtractResult{
			Dir:    j.Dir,
			Report: nil,
			Error:  err,
		}
	}
	return &ExtractResult{
		Dir:    j.Dir,
		Report: result.Report,
		Error:  nil,
	}
}

// ExtractResult represents the result of an extraction job
type ExtractResult struct {
	Dir    string
	Report *model.Report
	Error  error
}

// GetError returns the error from the extraction result
func (r *ExtractResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple policy sets concurrently. Each
// directory is one independent run; runs share no state.
type BatchProcessor struct {
	extractor   Extractor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(extractor Extractor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		extractor:   extractor,
		concurrency: concurrency,
	}
}

// ProcessDirs processes multiple policy-set directories concurrently
func (b *BatchProcessor) ProcessDirs(ctx context.Context, dirs []string) []*ExtractResult {
	if len(dirs) == 0 {
		return []*ExtractResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, dir := range dirs {
		pool.Submit(&ExtractJob{
			Dir:       dir,
			Extractor: b.extractor,
		})
	}

	return pool.Wait()
}

// ProcessRoot treats every subdirectory of root as one policy set and
// processes them concurrently.
func (b *BatchProcessor) ProcessRoot(ctx context.Context, root string) ([]*ExtractResult, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read root: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no policy-set directories under %s", root)
	}

	return b.ProcessDirs(ctx, dirs), nil
}

// ProcessFile reads directory paths from a manifest file and processes
// them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ExtractResult, error) {
	dirs, err := ReadDirsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.ProcessDirs(ctx, dirs), nil
}

// ReadDirsFromFile reads directory paths from a file (one per line)
func ReadDirsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var dirs []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate paths
		if !seen[line] {
			seen[line] = true
			dirs = append(dirs, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return dirs, nil
}
