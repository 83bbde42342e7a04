package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NivBraz/tagextractor/internal/config"
	"github.com/NivBraz/tagextractor/internal/models"
	"github.com/NivBraz/tagextractor/pkg/fetcher"
	"github.com/NivBraz/tagextractor/pkg/source"
	"github.com/NivBraz/tagextractor/pkg/stopwords"
	"github.com/NivBraz/tagextractor/pkg/store"
	"github.com/NivBraz/tagextractor/pkg/tags"
	"github.com/schollz/progressbar/v3"
)

// NoTagsMessage is shown when extraction produced an empty table.
const NoTagsMessage = "No tags found (check stop words or file content)."

// progressChunk is the number of lines counted between progress updates.
const progressChunk = 256

var (
	ErrNoDocument      = errors.New("no document selected")
	ErrNothingToSave   = errors.New("nothing to save, run extraction first")
	ErrArchiveDisabled = errors.New("archive is not configured")
)

// App is the driver. It owns the state of the current run and passes it
// explicitly to the extraction functions.
type App struct {
	config  *config.Config
	reader  *source.Reader
	archive *store.Store

	document  string
	stopWords *stopwords.Set
	ranked    []models.WordCount
}

// New creates a new instance of the application
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	f := fetcher.New(fetcher.FetcherConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		Timeout:           time.Duration(cfg.HTTPClient.Timeout) * time.Second,
		UserAgent:         cfg.HTTPClient.UserAgent,
		MaxRetries:        cfg.HTTPClient.MaxRetries,
		InitialBackoff:    time.Duration(cfg.HTTPClient.RetryDelay) * time.Second,
	})

	a := &App{
		config: cfg,
		reader: source.NewReader(f),
	}

	if cfg.Archive.Path != "" {
		s, err := store.Open(cfg.Archive.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open archive: %w", err)
		}
		a.archive = s
	}

	return a, nil
}

// Close releases the archive, if one is open.
func (a *App) Close() error {
	if a.archive == nil {
		return nil
	}
	return a.archive.Close()
}

// SetDocument selects the document for the next extraction.
func (a *App) SetDocument(location string) {
	a.document = location
	a.ranked = nil
}

// LoadStopWords replaces the current stop words with the list at location,
// or with the built-in list when location is stopwords.BuiltinName.
func (a *App) LoadStopWords(ctx context.Context, location string) (int, error) {
	a.stopWords = nil

	if location == stopwords.BuiltinName {
		a.stopWords = stopwords.Default()
		return a.stopWords.Len(), nil
	}

	lines, err := a.reader.ReadLines(ctx, location)
	if err != nil {
		return 0, fmt.Errorf("error loading stop words: %w", err)
	}
	a.stopWords = stopwords.Load(lines)
	if a.config.Logging.Verbose {
		log.Printf("Stop words from %s: %v", location, a.stopWords.Words())
	}
	return a.stopWords.Len(), nil
}

// Extract reads the selected document and ranks its tags. An empty result is
// not an error; CanSave reports false afterwards.
func (a *App) Extract(ctx context.Context) (*models.Result, error) {
	if a.document == "" {
		return nil, ErrNoDocument
	}
	if a.stopWords == nil {
		return nil, tags.ErrStopWordsNotLoaded
	}

	startTime := time.Now()
	a.ranked = nil

	lines, err := a.reader.ReadLines(ctx, a.document)
	if err != nil {
		return nil, fmt.Errorf("error reading document: %w", err)
	}

	table, err := a.countTags(lines)
	if err != nil {
		return nil, err
	}
	a.ranked = tags.Rank(table)

	result := &models.Result{
		Document: a.DocumentName(),
		Tags:     a.ranked,
	}
	result.Stats.DistinctTags = len(a.ranked)
	result.Stats.StopWords = a.stopWords.Len()
	result.Stats.Lines = len(lines)
	for _, e := range a.ranked {
		result.Stats.TotalTags += e.Count
	}
	result.Stats.TimeElapsed = int(time.Since(startTime).Milliseconds())

	return result, nil
}

// countTags extracts the whole document at once, or chunk by chunk while
// driving a progress bar. Both give the same table.
func (a *App) countTags(lines []string) (tags.Table, error) {
	if !a.config.Output.ShowProgress || len(lines) == 0 {
		return tags.Extract(lines, a.stopWords)
	}

	bar := progressbar.NewOptions(len(lines),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Scanning document..."),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	defer bar.Finish()

	table := make(tags.Table)
	for start := 0; start < len(lines); start += progressChunk {
		end := min(start+progressChunk, len(lines))
		part, err := tags.Extract(lines[start:end], a.stopWords)
		if err != nil {
			return nil, err
		}
		table.Merge(part)
		bar.Add(end - start)
	}
	return table, nil
}

// DocumentName is the name written into saved reports.
func (a *App) DocumentName() string {
	if a.document == "" || source.IsRemote(a.document) {
		return a.document
	}
	return filepath.Base(a.document)
}

// CanSave reports whether the last extraction produced any tags.
func (a *App) CanSave() bool {
	return len(a.ranked) > 0
}

// Report renders the last extraction for display.
func (a *App) Report() string {
	return tags.Report(a.ranked, a.config.Output.WordWidth)
}

// Save writes the last extraction to path, adding a .txt extension when
// missing, and returns the absolute path written.
func (a *App) Save(path string) (string, error) {
	if !a.CanSave() {
		return "", ErrNothingToSave
	}

	path = normalizeSavePath(path)
	if err := os.WriteFile(path, tags.Serialize(a.ranked, a.DocumentName()), 0644); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// Archive stores the last extraction in the configured archive.
func (a *App) Archive(ctx context.Context) (int64, error) {
	if a.archive == nil {
		return 0, ErrArchiveDisabled
	}
	if !a.CanSave() {
		return 0, ErrNothingToSave
	}
	return a.archive.SaveReport(ctx, a.DocumentName(), a.ranked)
}

// ShowArchived renders a report previously stored with Archive.
func (a *App) ShowArchived(ctx context.Context, id int64) (string, error) {
	if a.archive == nil {
		return "", ErrArchiveDisabled
	}
	name, entries, err := a.archive.LoadReport(ctx, id)
	if err != nil {
		return "", fmt.Errorf("error loading archived report %d: %w", id, err)
	}
	return fmt.Sprintf("Tags for file: %s\n\n%s", name, tags.Report(entries, a.config.Output.WordWidth)), nil
}

// Clear forgets the document, the stop words and the last extraction.
func (a *App) Clear() {
	a.document = ""
	a.stopWords = nil
	a.ranked = nil
}

func normalizeSavePath(path string) string {
	if !strings.HasSuffix(strings.ToLower(path), ".txt") {
		return path + ".txt"
	}
	return path
}
