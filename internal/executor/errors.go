package executor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	value "github.com/quillgraph/quillgraph/internal/value"
)

// Location is a source position of an error, 1-based.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ExecError is a located, non-fatal execution error: a resolver failure, a
// coercion failure, or a custom-scalar rejection. Schema-consistency
// violations are never ExecErrors; they panic.
type ExecError struct {
	Message   string     `json:"message"`
	Locations []Location `json:"locations,omitempty"`
	Path      []any      `json:"path,omitempty"`
}

func (e ExecError) Error() string { return e.Message }

// ExecutionResult pairs the result tree with the ordered error list. Partially
// or entirely null data next to a non-empty error list is valid output.
type ExecutionResult[S value.ScalarValue] struct {
	Data   value.Value[S]
	Errors []ExecError
}

// MarshalJSON assembles the conventional {"data": ..., "errors": [...]} shape
// as a convenience for transport collaborators; the engine itself never emits
// wire frames.
func (r *ExecutionResult[S]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"data":`)
	data, err := r.Data.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.Write(data)
	if len(r.Errors) > 0 {
		buf.WriteString(`,"errors":`)
		errs, err := json.Marshal(r.Errors)
		if err != nil {
			return nil, err
		}
		buf.Write(errs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// errorSink collects errors for one query execution. Every sub-executor of the
// executor tree appends into the same sink; async units may append
// concurrently, so ordering is restored on drain rather than on write.
type errorSink struct {
	mu   sync.Mutex
	errs []ExecError
}

func (s *errorSink) append(e ExecError) {
	s.mu.Lock()
	s.errs = append(s.errs, e)
	s.mu.Unlock()
}

// drain returns the collected errors ordered by source location, then by
// response path, for deterministic reporting.
func (s *errorSink) drain() []ExecError {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ExecError, len(s.errs))
	copy(out, s.errs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		al, bl := firstLocation(a), firstLocation(b)
		if al != bl {
			if al.Line != bl.Line {
				return al.Line < bl.Line
			}
			return al.Column < bl.Column
		}
		return pathString(a.Path) < pathString(b.Path)
	})
	return out
}

func firstLocation(e ExecError) Location {
	if len(e.Locations) > 0 {
		return e.Locations[0]
	}
	return Location{}
}

func pathString(path []any) string {
	var buf bytes.Buffer
	for i, elem := range path {
		switch v := elem.(type) {
		case string:
			if i > 0 {
				buf.WriteByte('.')
			}
			buf.WriteString(v)
		case int:
			fmt.Fprintf(&buf, "[%d]", v)
		}
	}
	return buf.String()
}
