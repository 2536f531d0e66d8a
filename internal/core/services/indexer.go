package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/docmunch-cli/internal/core/domain"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docmunch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docmunch-cli/internal/logger"
)

// DefaultConcurrency is the default bound on parallel per-file parsing.
const DefaultConcurrency = 8

// Ensure IndexerService implements the interface.
var _ driving.Indexer = (*IndexerService)(nil)

// IndexerService orchestrates the indexing pipeline: parse files, assign
// section IDs, assemble the document, persist it.
//
// A single run is logically sequential, but per-file parsing has no
// cross-file dependency and runs on a bounded worker pool. Parse results
// are merged back in file discovery order before IDs are assigned, so
// disambiguation is reproducible regardless of worker scheduling.
type IndexerService struct {
	cache      driven.CacheStore
	catalogue  driven.CatalogStore
	parsers    driven.ParserRegistry
	summariser driven.Summariser

	concurrency int

	// At-most-one-build-per-key tracking.
	mu     sync.Mutex
	active map[string]*driving.IndexStatus
}

// IndexerOption configures the indexer service.
type IndexerOption func(*IndexerService)

// WithConcurrency bounds the parser worker pool.
func WithConcurrency(n int) IndexerOption {
	return func(s *IndexerService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewIndexerService creates a new indexer.
// The catalogue store and summariser are optional: without a catalogue,
// listing surfaces degrade; without a summariser, sections carry empty
// summaries and no keywords.
func NewIndexerService(
	cache driven.CacheStore,
	catalogue driven.CatalogStore,
	parsers driven.ParserRegistry,
	summariser driven.Summariser,
	opts ...IndexerOption,
) *IndexerService {
	s := &IndexerService{
		cache:       cache,
		catalogue:   catalogue,
		parsers:     parsers,
		summariser:  summariser,
		concurrency: DefaultConcurrency,
		active:      make(map[string]*driving.IndexStatus),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Index fetches files through the connector and builds or incrementally
// updates the repository's catalogue.
func (s *IndexerService) Index(ctx context.Context, connector driven.Connector) (*driving.IndexOutcome, error) {
	if err := connector.Validate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnectorValidation, err)
	}

	files, err := connector.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch files: %w", err)
	}
	for _, skipped := range files.Skipped {
		logger.Warn("Skipped %s: sensitive content", skipped)
	}

	return s.UpdateIndex(ctx, connector.Ref(), files)
}

// BuildIndex runs the full pipeline, ignoring any cached state.
func (s *IndexerService) BuildIndex(ctx context.Context, ref domain.RepoRef, files *domain.FileSet) (*driving.IndexOutcome, error) {
	status, err := s.acquire(ref)
	if err != nil {
		return nil, err
	}
	defer s.release(ref)

	return s.build(ctx, ref, files, status)
}

// UpdateIndex reconciles the cached document against the current file
// set. With no usable cache this is a full build: staleness and absence
// share one recovery path.
func (s *IndexerService) UpdateIndex(ctx context.Context, ref domain.RepoRef, files *domain.FileSet) (*driving.IndexOutcome, error) {
	status, err := s.acquire(ref)
	if err != nil {
		return nil, err
	}
	defer s.release(ref)

	prev, err := s.cache.Load(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Info("No usable cache for %s, running full build", ref)
			return s.build(ctx, ref, files, status)
		}
		return nil, fmt.Errorf("load cache: %w", err)
	}

	return s.update(ctx, ref, prev, files, status)
}

// Status returns the progress of an in-flight run, or an idle status.
func (s *IndexerService) Status(_ context.Context, ref domain.RepoRef) (*driving.IndexStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status, ok := s.active[ref.Key()]; ok {
		// Return a copy to avoid race conditions.
		copied := *status
		return &copied, nil
	}
	return &driving.IndexStatus{Repo: ref.String(), Running: false}, nil
}

// acquire registers an in-flight run for the key, rejecting concurrent
// runs: unsynchronised writes to the same persisted document would lose
// updates.
func (s *IndexerService) acquire(ref domain.RepoRef) (*driving.IndexStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ref.Key()
	if _, running := s.active[key]; running {
		return nil, fmt.Errorf("%w: %s", domain.ErrIndexInProgress, ref)
	}
	status := &driving.IndexStatus{
		Repo:    ref.String(),
		RunID:   uuid.New().String(),
		Running: true,
	}
	s.active[key] = status
	return status, nil
}

func (s *IndexerService) release(ref domain.RepoRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, ref.Key())
}

// parsedFile is one worker's output for a single file.
type parsedFile struct {
	file     domain.SourceFile
	content  []byte // newline-normalised
	sections []domain.RawSection
	err      error
}

// build runs the full pipeline with an empty previous document.
func (s *IndexerService) build(ctx context.Context, ref domain.RepoRef, files *domain.FileSet, status *driving.IndexStatus) (*driving.IndexOutcome, error) {
	started := time.Now()
	logger.Section("Build " + ref.String())

	if len(files.Files) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoDocFiles, ref)
	}

	parsed, warnings := s.parseAll(ctx, files.Files, status)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gen := newIDGenerator()
	doc := &domain.IndexDocument{
		Repo:         ref.String(),
		Owner:        ref.Owner,
		Name:         ref.Name,
		IndexedAt:    time.Now().UTC(),
		IndexVersion: driven.CurrentIndexVersion,
		CommitHash:   files.CommitHash,
		FileHashes:   make(domain.FileHashMap, len(parsed)),
	}

	rawFiles := make(map[string][]byte, len(parsed))
	for _, p := range parsed {
		sections, err := s.assemble(ctx, gen, p)
		if err != nil {
			return nil, err
		}
		doc.DocFiles = append(doc.DocFiles, p.file.Path)
		doc.FileHashes[p.file.Path] = p.file.Hash
		doc.Sections = append(doc.Sections, sections...)
		rawFiles[p.file.Path] = p.content
	}

	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoSections, ref)
	}

	if err := s.persist(ctx, ref, doc, rawFiles, nil); err != nil {
		return nil, err
	}

	logger.Info("Built index for %s: %d files, %d sections, %d warnings",
		ref, len(doc.DocFiles), len(doc.Sections), len(warnings))

	return &driving.IndexOutcome{
		RunID:       status.RunID,
		Document:    doc,
		Warnings:    warnings,
		FilesParsed: len(parsed),
		Duration:    time.Since(started),
	}, nil
}

// update reconciles prev against the current file set, re-parsing only
// changed and added files and carrying unchanged sections forward.
func (s *IndexerService) update(ctx context.Context, ref domain.RepoRef, prev *domain.IndexDocument, files *domain.FileSet, status *driving.IndexStatus) (*driving.IndexOutcome, error) {
	started := time.Now()
	logger.Section("Update " + ref.String())

	currHashes := files.Hashes()
	diff := Partition(prev.FileHashes, currHashes)
	logger.Info("Diff for %s: %d changed, %d added, %d deleted, %d unchanged",
		ref, len(diff.Changed), len(diff.Added), len(diff.Deleted), len(diff.Unchanged))

	reparse := make(map[string]bool, len(diff.Changed)+len(diff.Added))
	for _, p := range diff.Changed {
		reparse[p] = true
	}
	for _, p := range diff.Added {
		reparse[p] = true
	}

	var toParse []domain.SourceFile
	for _, f := range files.Files {
		if reparse[f.Path] {
			toParse = append(toParse, f)
		}
	}

	parsed, warnings := s.parseAll(ctx, toParse, status)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	parsedByPath := make(map[string]parsedFile, len(parsed))
	for _, p := range parsed {
		parsedByPath[p.file.Path] = p
	}

	// Reserve carried IDs first so re-parsed files can never steal an
	// identifier from an untouched section.
	gen := newIDGenerator()
	unchanged := make(map[string]bool, len(diff.Unchanged))
	for _, p := range diff.Unchanged {
		unchanged[p] = true
	}
	for _, sec := range prev.Sections {
		if unchanged[sec.File] {
			gen.Reserve(sec.ID)
		}
	}

	doc := &domain.IndexDocument{
		Repo:         ref.String(),
		Owner:        ref.Owner,
		Name:         ref.Name,
		IndexedAt:    time.Now().UTC(),
		IndexVersion: driven.CurrentIndexVersion,
		CommitHash:   files.CommitHash,
		FileHashes:   make(domain.FileHashMap, len(files.Files)),
	}
	if doc.CommitHash == "" {
		doc.CommitHash = prev.CommitHash
	}

	rawFiles := make(map[string][]byte, len(parsed))
	filesParsed := 0
	for _, f := range files.Files {
		switch {
		case unchanged[f.Path]:
			// Carried forward verbatim, not re-parsed.
			doc.DocFiles = append(doc.DocFiles, f.Path)
			doc.FileHashes[f.Path] = currHashes[f.Path]
			doc.Sections = append(doc.Sections, prev.SectionsForFile(f.Path)...)

		default:
			p, ok := parsedByPath[f.Path]
			if !ok {
				continue // parse failure, reported in warnings
			}
			sections, err := s.assemble(ctx, gen, p)
			if err != nil {
				return nil, err
			}
			doc.DocFiles = append(doc.DocFiles, f.Path)
			doc.FileHashes[f.Path] = f.Hash
			doc.Sections = append(doc.Sections, sections...)
			rawFiles[f.Path] = p.content
			filesParsed++
		}
	}

	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoSections, ref)
	}

	if err := s.persist(ctx, ref, doc, rawFiles, diff.Deleted); err != nil {
		return nil, err
	}

	logger.Info("Updated index for %s: %d files (%d re-parsed), %d sections",
		ref, len(doc.DocFiles), filesParsed, len(doc.Sections))

	return &driving.IndexOutcome{
		RunID:        status.RunID,
		Document:     doc,
		Warnings:     warnings,
		FilesParsed:  filesParsed,
		FilesCarried: len(diff.Unchanged),
		Duration:     time.Since(started),
	}, nil
}

// parseAll parses files on a bounded worker pool. Results come back in
// the input order; per-file failures become warnings, not errors.
func (s *IndexerService) parseAll(ctx context.Context, files []domain.SourceFile, status *driving.IndexStatus) ([]parsedFile, []domain.Warning) {
	results := make([]parsedFile, len(files))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f domain.SourceFile) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results[i] = parsedFile{file: f, err: ctx.Err()}
				return
			}
			results[i] = s.parseOne(ctx, f)

			s.mu.Lock()
			status.FilesProcessed++
			if results[i].err != nil {
				status.WarningCount++
			}
			s.mu.Unlock()
		}(i, f)
	}
	wg.Wait()

	ok := results[:0:0]
	var warnings []domain.Warning
	for _, r := range results {
		if r.err != nil {
			logger.Warn("Parse failed for %s: %v", r.file.Path, r.err)
			warnings = append(warnings, domain.Warning{Path: r.file.Path, Message: r.err.Error()})
			continue
		}
		ok = append(ok, r)
	}
	return ok, warnings
}

// parseOne normalises one file's line endings and parses it.
func (s *IndexerService) parseOne(ctx context.Context, f domain.SourceFile) parsedFile {
	parser, err := s.parsers.ParserFor(f.Path)
	if err != nil {
		return parsedFile{file: f, err: err}
	}

	content := normaliseLineEndings(f.Content)
	if !utf8.Valid(content) {
		return parsedFile{file: f, err: fmt.Errorf("%w: not valid UTF-8", domain.ErrInvalidInput)}
	}

	sections, err := parser.Parse(ctx, f.Path, content)
	if err != nil {
		return parsedFile{file: f, err: err}
	}
	return parsedFile{file: f, content: content, sections: sections}
}

// assemble turns one parsed file into catalogue sections: IDs assigned,
// parents resolved, summaries and keywords attached.
func (s *IndexerService) assemble(ctx context.Context, gen *idGenerator, p parsedFile) ([]domain.Section, error) {
	sections, err := gen.Assign(p.file.Path, p.sections)
	if err != nil {
		return nil, err
	}

	for i := range sections {
		// Keywords always serialise as an array, never null.
		sections[i].Keywords = []string{}
	}
	if s.summariser != nil {
		for i := range sections {
			summary, keywords, err := s.summariser.Summarise(ctx, sections[i].Title, p.sections[i].Content)
			if err != nil {
				logger.Debug("Summarise %s failed: %v", sections[i].ID, err)
				continue
			}
			if len(keywords) > domain.MaxKeywords {
				keywords = keywords[:domain.MaxKeywords]
			}
			sections[i].Summary = summary
			if keywords != nil {
				sections[i].Keywords = keywords
			}
		}
	}
	return sections, nil
}

// persist saves the document and refreshes the catalogue entry.
// Nothing has been written before this point, so abandoning a run
// earlier leaves no side effects.
func (s *IndexerService) persist(ctx context.Context, ref domain.RepoRef, doc *domain.IndexDocument, rawFiles map[string][]byte, removed []string) error {
	if err := s.cache.Save(ctx, ref, doc, rawFiles, removed); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	if s.catalogue != nil {
		entry := domain.RepoSummary{
			Owner:        ref.Owner,
			Name:         ref.Name,
			IndexedAt:    doc.IndexedAt,
			IndexVersion: doc.IndexVersion,
			CommitHash:   doc.CommitHash,
			FileCount:    len(doc.DocFiles),
			SectionCount: len(doc.Sections),
		}
		if err := s.catalogue.Upsert(ctx, entry); err != nil {
			// The cache document is the source of truth; a catalogue
			// failure must not fail the build.
			logger.Warn("Catalogue update failed for %s: %v", ref, err)
		}
	}
	return nil
}

// normaliseLineEndings collapses CRLF and lone CR to LF so byte offsets
// are platform-independent.
func normaliseLineEndings(content []byte) []byte {
	if !bytes.ContainsRune(content, '\r') {
		return content
	}
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(content, []byte("\r"), []byte("\n"))
}
