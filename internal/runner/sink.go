package runner

import (
	"context"
	"encoding/json"
	"io"
	"sync"
)

// Sink receives trial outcomes as they complete. Implementations must be
// safe for concurrent use; workers record results in completion order, which
// is not the expansion order.
type Sink interface {
	Record(ctx context.Context, res *Result) error
}

// Tee fans every result out to all given sinks, stopping at the first error.
func Tee(sinks ...Sink) Sink {
	return teeSink(sinks)
}

type teeSink []Sink

func (t teeSink) Record(ctx context.Context, res *Result) error {
	for _, sink := range t {
		if err := sink.Record(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

// JSONLSink writes one JSON object per result to a stream, typically a
// results file that survives the process for later analysis.
type JSONLSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLSink creates a sink writing JSON lines to w.
func NewJSONLSink(w io.Writer) *JSONLSink {
	return &JSONLSink{enc: json.NewEncoder(w)}
}

// Record implements Sink.
func (s *JSONLSink) Record(_ context.Context, res *Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(res)
}
