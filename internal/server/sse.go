package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

const doneMarker = "[DONE]"

// ChunkText cuts text into pieces of at most size runes. A non-positive
// size yields the whole text as one chunk.
func ChunkText(text string, size int) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if size <= 0 || len(runes) <= size {
		return []string{text}
	}
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Stream writes chunks as server-sent events, one event per chunk, pausing
// delay between chunks, and ends with a [DONE] event. Multi-line chunks get
// one data: line per line; clients rejoin them with newlines.
func Stream(ctx context.Context, w http.ResponseWriter, chunks []string, delay time.Duration) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return errors.New("response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for i, chunk := range chunks {
		if i > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := writeEvent(w, chunk); err != nil {
			return err
		}
		flusher.Flush()
	}
	if err := writeEvent(w, doneMarker); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func writeEvent(w http.ResponseWriter, data string) error {
	var b strings.Builder
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	_, err := w.Write([]byte(b.String()))
	return err
}
