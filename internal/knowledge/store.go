package knowledge

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	errx "github.com/medical-triage/server/internal/core/error"
	logx "github.com/medical-triage/server/pkg/logger"
)

const (
	fieldContent   = "content"
	fieldSource    = "source"
	fieldEmbedding = "embedding"
	fieldScore     = "score"
)

// StoreConfig names the RediSearch index and the hash key prefix it covers.
type StoreConfig struct {
	Index     string
	Prefix    string
	Dimension int
}

// Store keeps knowledge chunks as Redis hashes indexed by a RediSearch
// vector index. Ranking is done by Redis.
type Store struct {
	rdb redis.UniversalClient
	cfg StoreConfig
}

func NewStore(rdb redis.UniversalClient, cfg StoreConfig) *Store {
	return &Store{rdb: rdb, cfg: cfg}
}

func (s *Store) metaKey() string {
	return s.cfg.Prefix + "meta"
}

func (s *Store) docKey(id string) string {
	return s.cfg.Prefix + "doc:" + id
}

// EnsureIndex creates the vector index unless it already exists.
func (s *Store) EnsureIndex(ctx context.Context) error {
	if s.cfg.Dimension <= 0 {
		return fmt.Errorf("invalid embedding dimension %d", s.cfg.Dimension)
	}
	err := s.rdb.Do(ctx,
		"FT.CREATE", s.cfg.Index,
		"ON", "HASH",
		"PREFIX", "1", s.cfg.Prefix+"doc:",
		"SCHEMA",
		fieldContent, "TEXT",
		fieldSource, "TAG",
		fieldEmbedding, "VECTOR", "HNSW", "6",
		"TYPE", "FLOAT32",
		"DIM", s.cfg.Dimension,
		"DISTANCE_METRIC", "COSINE",
	).Err()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "index already exists") {
			return nil
		}
		logx.Error().Err(err).Str("index", s.cfg.Index).Msg("failed to create vector index")
		return errx.WrapRedis(err)
	}
	logx.Info().Str("index", s.cfg.Index).Int("dim", s.cfg.Dimension).Msg("Vector index created")
	return nil
}

// Populated reports whether an ingest run has completed for this prefix.
func (s *Store) Populated(ctx context.Context) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.metaKey()).Result()
	if err != nil {
		return false, errx.WrapRedis(err)
	}
	return n > 0, nil
}

// AddDocuments stores docs with their vectors. docs and vectors are parallel.
func (s *Store) AddDocuments(ctx context.Context, docs []*schema.Document, vectors [][]float64) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("%d documents but %d vectors", len(docs), len(vectors))
	}
	_, err := s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, d := range docs {
			source, _ := d.MetaData[fieldSource].(string)
			pipe.HSet(ctx, s.docKey(d.ID),
				fieldContent, d.Content,
				fieldSource, source,
				fieldEmbedding, EncodeVector(vectors[i]),
			)
		}
		return nil
	})
	if err != nil {
		logx.Error().Err(err).Int("documents", len(docs)).Msg("failed to store knowledge documents")
		return errx.WrapRedis(err)
	}
	return nil
}

// MarkPopulated records a finished ingest run.
func (s *Store) MarkPopulated(ctx context.Context, chunks int) error {
	err := s.rdb.HSet(ctx, s.metaKey(),
		"chunks", chunks,
		"ingested_at", time.Now().UTC().Format(time.RFC3339),
	).Err()
	return errx.WrapRedis(err)
}

// Search returns the k nearest chunks to vector, closest first.
func (s *Store) Search(ctx context.Context, vector []float64, k int) ([]*schema.Document, error) {
	if k <= 0 {
		k = 1
	}
	query := fmt.Sprintf("*=>[KNN %d @%s $vec AS %s]", k, fieldEmbedding, fieldScore)
	res, err := s.rdb.Do(ctx,
		"FT.SEARCH", s.cfg.Index, query,
		"PARAMS", "2", "vec", EncodeVector(vector),
		"SORTBY", fieldScore,
		"RETURN", "3", fieldContent, fieldSource, fieldScore,
		"LIMIT", "0", k,
		"DIALECT", "2",
	).Result()
	if err != nil {
		return nil, fmt.Errorf("ft.search: %w", err)
	}
	return parseSearchReply(res)
}

// EncodeVector packs a vector as little-endian float32, the layout
// RediSearch expects for FLOAT32 fields.
func EncodeVector(v []float64) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(float32(f)))
	}
	return buf
}

// parseSearchReply decodes FT.SEARCH replies in both RESP2 (flat array) and
// RESP3 (map) shapes.
func parseSearchReply(res any) ([]*schema.Document, error) {
	switch r := res.(type) {
	case []any:
		return parseRESP2(r)
	case map[any]any:
		return parseRESP3(r)
	default:
		return nil, fmt.Errorf("unexpected ft.search reply %T", res)
	}
}

func parseRESP2(r []any) ([]*schema.Document, error) {
	if len(r) == 0 {
		return nil, fmt.Errorf("empty ft.search reply")
	}
	docs := make([]*schema.Document, 0, (len(r)-1)/2)
	for i := 1; i+1 < len(r); i += 2 {
		id, _ := r[i].(string)
		fields, ok := r[i+1].([]any)
		if !ok {
			return nil, fmt.Errorf("unexpected fields %T for %s", r[i+1], id)
		}
		attrs := make(map[string]any, len(fields)/2)
		for j := 0; j+1 < len(fields); j += 2 {
			if name, ok := fields[j].(string); ok {
				attrs[name] = fields[j+1]
			}
		}
		docs = append(docs, newDocument(id, attrs))
	}
	return docs, nil
}

func parseRESP3(r map[any]any) ([]*schema.Document, error) {
	results, ok := r["results"].([]any)
	if !ok {
		return nil, nil
	}
	docs := make([]*schema.Document, 0, len(results))
	for _, item := range results {
		m, ok := item.(map[any]any)
		if !ok {
			return nil, fmt.Errorf("unexpected result %T", item)
		}
		id, _ := m["id"].(string)
		attrs := map[string]any{}
		if extra, ok := m["extra_attributes"].(map[any]any); ok {
			for k, v := range extra {
				if name, ok := k.(string); ok {
					attrs[name] = v
				}
			}
		}
		docs = append(docs, newDocument(id, attrs))
	}
	return docs, nil
}

func newDocument(id string, attrs map[string]any) *schema.Document {
	d := &schema.Document{
		ID:       id,
		Content:  asString(attrs[fieldContent]),
		MetaData: map[string]any{},
	}
	if src := asString(attrs[fieldSource]); src != "" {
		d.MetaData[fieldSource] = src
	}
	if dist, err := strconv.ParseFloat(asString(attrs[fieldScore]), 64); err == nil {
		// cosine distance to similarity
		d.WithScore(1 - dist)
	}
	return d
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
