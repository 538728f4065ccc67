package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/job-matcher/internal/ingestion"
	"github.com/jonathan/job-matcher/internal/parsing"
	"github.com/jonathan/job-matcher/internal/types"
)

// corpusLoader reads a directory of posting files.
type corpusLoader struct {
	parser      *parsing.Parser
	concurrency int
	logger      *zap.Logger
}

// CorpusOption configures LoadCorpus.
type CorpusOption func(*corpusLoader)

// WithCorpusParser sets the parser used for text and HTML files and for structured
// postings that carry a description but no requirements.
func WithCorpusParser(p *parsing.Parser) CorpusOption {
	return func(l *corpusLoader) {
		if p != nil {
			l.parser = p
		}
	}
}

// WithCorpusConcurrency bounds the files read at once.
func WithCorpusConcurrency(n int) CorpusOption {
	return func(l *corpusLoader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithCorpusLogger sets the logger.
func WithCorpusLogger(logger *zap.Logger) CorpusOption {
	return func(l *corpusLoader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// LoadCorpus reads every posting file in dir (not recursively). Text (.txt, .md) and HTML
// (.html, .htm) files hold one posting each and are parsed; JSON and YAML files hold one
// posting or a list of postings, either at the top level or under a "postings" key.
// Other files are skipped. Postings are returned in file name order.
func LoadCorpus(ctx context.Context, dir string, opts ...CorpusOption) ([]types.CorpusPosting, error) {
	l := &corpusLoader{concurrency: DefaultConcurrency, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	if l.parser == nil {
		l.parser = parsing.NewParser(parsing.WithLogger(l.logger))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if kindOf(e.Name()) == kindUnknown {
			l.logger.Debug("skipping corpus file", zap.String("file", e.Name()))
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	loaded := make([][]types.CorpusPosting, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			postings, err := l.loadFile(filepath.Join(dir, name))
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", name, err)
			}
			loaded[i] = postings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []types.CorpusPosting
	for _, postings := range loaded {
		out = append(out, postings...)
	}
	l.logger.Info("corpus loaded",
		zap.String("dir", dir),
		zap.Int("files", len(files)),
		zap.Int("postings", len(out)))
	return out, nil
}

type fileKind int

const (
	kindUnknown fileKind = iota
	kindText
	kindHTML
	kindStructured
)

func kindOf(name string) fileKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return kindText
	case ".html", ".htm":
		return kindHTML
	case ".json", ".yaml", ".yml":
		return kindStructured
	default:
		return kindUnknown
	}
}

func (l *corpusLoader) loadFile(path string) ([]types.CorpusPosting, error) {
	name := filepath.Base(path)
	switch kindOf(name) {
	case kindText:
		cleaned, meta, err := ingestion.IngestFromFile(path)
		if err != nil {
			return nil, err
		}
		return []types.CorpusPosting{fromRecord(l.parser.Parse(cleaned, ""), name, meta.Hash)}, nil
	case kindHTML:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		record, err := l.parser.ParseHTML(string(raw), "")
		if err != nil {
			return nil, err
		}
		return []types.CorpusPosting{fromRecord(record, name, ingestion.ComputeHash(record.Description))}, nil
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return l.decodeStructured(raw, name)
	}
}

func fromRecord(record types.PostingRecord, source, hash string) types.CorpusPosting {
	requirements := record.RequirementList
	if requirements == nil {
		requirements = []string{}
	}
	return types.CorpusPosting{
		ID:           uuid.NewString(),
		Source:       source,
		Hash:         hash,
		Title:        record.Title,
		Company:      record.Company,
		Location:     record.Location,
		URL:          record.URL,
		Description:  record.Description,
		Requirements: requirements,
	}
}

// decodeStructured decodes JSON or YAML (YAML is a superset of JSON) into postings.
func (l *corpusLoader) decodeStructured(raw []byte, source string) ([]types.CorpusPosting, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse posting file: %w", err)
	}

	var items []any
	switch v := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		items = v
	case map[string]any:
		if list, ok := v["postings"].([]any); ok {
			items = list
		} else {
			items = []any{v}
		}
	default:
		return nil, fmt.Errorf("unexpected top-level %T in posting file", doc)
	}

	dict := l.parser.Extractor().Dictionary()
	out := make([]types.CorpusPosting, 0, len(items))
	for i, item := range items {
		var p types.CorpusPosting
		if err := decodePosting(item, &p); err != nil {
			return nil, fmt.Errorf("posting %d: %w", i+1, err)
		}

		p.Source = source
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if len(p.Requirements) == 0 && p.Description != "" {
			p.Requirements = l.parser.Parse(p.Description, p.URL).RequirementList
		}
		p.Requirements = dict.NormalizeList(p.Requirements)
		if p.Hash == "" {
			p.Hash = ingestion.ComputeHash(ingestion.CleanText(p.Title + "\n" + p.Company + "\n" + p.Description))
		}
		out = append(out, p)
	}
	return out, nil
}

// decodePosting maps a decoded document onto a posting. Requirements may be a list or a
// comma-separated string, and scalar fields are converted weakly.
func decodePosting(input any, out *types.CorpusPosting) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      false,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
