package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/sambhav874/WingHeights/internal/config"
)

const (
	chunkSize    = 500
	chunkOverlap = 50
	topK         = 2
)

type entry struct {
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

// Index is a flat vector index over the chunked document corpus. It is
// built once from the data directory and persisted as JSON at the
// configured index path; subsequent startups load the persisted file.
type Index struct {
	embedder embeddings.Embedder
	entries  []entry
}

// Open loads the persisted index, building it from the data directory when
// no index file exists yet.
func Open(ctx context.Context, cfg config.RetrievalConfig, embedder embeddings.Embedder) (*Index, error) {
	ix := &Index{embedder: embedder}

	if _, err := os.Stat(cfg.IndexPath); err == nil {
		if err := ix.load(cfg.IndexPath); err != nil {
			return nil, fmt.Errorf("failed to load index: %w", err)
		}
		logrus.WithField("chunks", len(ix.entries)).Info("Loaded vector index")
		return ix, nil
	}

	logrus.Info("Vector index not found, building a new one")
	if err := ix.build(ctx, cfg.DataPath); err != nil {
		return nil, err
	}
	if err := ix.save(cfg.IndexPath); err != nil {
		return nil, fmt.Errorf("failed to save index: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"chunks": len(ix.entries),
		"path":   cfg.IndexPath,
	}).Info("Vector index built")

	return ix, nil
}

// Retrieve embeds the query and returns the top matching chunks joined
// into a single context block.
func (ix *Index) Retrieve(ctx context.Context, query string) (string, error) {
	if len(ix.entries) == 0 {
		return "", nil
	}

	qv, err := ix.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	type scored struct {
		text  string
		score float64
	}

	results := make([]scored, 0, len(ix.entries))
	for _, e := range ix.entries {
		results = append(results, scored{text: e.Text, score: cosine(qv, e.Vector)})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	n := topK
	if n > len(results) {
		n = len(results)
	}

	parts := make([]string, 0, n)
	for _, r := range results[:n] {
		parts = append(parts, r.text)
	}
	return strings.Join(parts, "\n"), nil
}

func (ix *Index) build(ctx context.Context, dataPath string) error {
	texts, err := loadChunks(ctx, dataPath)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		logrus.Warnf("No documents found in %s, retrieval will return empty context", dataPath)
		return nil
	}

	vectors, err := ix.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}

	ix.entries = make([]entry, len(texts))
	for i, t := range texts {
		ix.entries[i] = entry{Text: t, Vector: vectors[i]}
	}
	return nil
}

func loadChunks(ctx context.Context, dataPath string) ([]string, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	var texts []string
	err := filepath.Walk(dataPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md":
		default:
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		docs, err := documentloaders.NewText(f).LoadAndSplit(ctx, splitter)
		if err != nil {
			return fmt.Errorf("failed to split %s: %w", path, err)
		}
		for _, d := range docs {
			texts = append(texts, d.PageContent)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	return texts, err
}

func (ix *Index) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &ix.entries)
}

func (ix *Index) save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.Marshal(ix.entries)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
