package knowledge

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/schema"

	logx "github.com/medical-triage/server/pkg/logger"
)

const paragraphSeparator = "\n\n"

// Splitter cuts documents into chunks of at most Size characters on
// paragraph boundaries, carrying up to Overlap characters of trailing
// paragraphs into the next chunk. A single paragraph longer than Size
// becomes its own oversized chunk.
type Splitter struct {
	Size    int
	Overlap int
}

var _ document.Transformer = (*Splitter)(nil)

func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be in [0, %d)", overlap, size)
	}
	return &Splitter{Size: size, Overlap: overlap}, nil
}

// Transform splits every document; chunk IDs derive from the parent ID.
func (s *Splitter) Transform(_ context.Context, src []*schema.Document, _ ...document.TransformerOption) ([]*schema.Document, error) {
	var out []*schema.Document
	for _, d := range src {
		if d == nil {
			continue
		}
		for i, chunk := range s.SplitText(d.Content) {
			meta := make(map[string]any, len(d.MetaData)+1)
			for k, v := range d.MetaData {
				meta[k] = v
			}
			meta["chunk"] = i
			out = append(out, &schema.Document{
				ID:       fmt.Sprintf("%s#%d", d.ID, i),
				Content:  chunk,
				MetaData: meta,
			})
		}
	}
	return out, nil
}

// SplitText splits text into chunks.
func (s *Splitter) SplitText(text string) []string {
	var parts []string
	for _, p := range strings.Split(text, paragraphSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return s.merge(parts)
}

func (s *Splitter) merge(parts []string) []string {
	sepLen := utf8.RuneCountInString(paragraphSeparator)
	var (
		chunks  []string
		current []string
		total   int
	)
	joinedLen := func(n int) int {
		if len(current) > 0 {
			return n + sepLen
		}
		return n
	}

	for _, p := range parts {
		n := utf8.RuneCountInString(p)
		if total+joinedLen(n) > s.Size {
			if total > s.Size {
				logx.Debug().Int("length", total).Int("size", s.Size).Msg("Chunk exceeds configured size")
			}
			if len(current) > 0 {
				chunks = append(chunks, strings.Join(current, paragraphSeparator))
				// drop leading parts until the remainder fits the overlap
				for total > s.Overlap || (total > 0 && total+joinedLen(n) > s.Size) {
					first := utf8.RuneCountInString(current[0])
					total -= first
					if len(current) > 1 {
						total -= sepLen
					}
					current = current[1:]
				}
			}
		}
		total += joinedLen(n)
		current = append(current, p)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, paragraphSeparator))
	}
	return chunks
}
