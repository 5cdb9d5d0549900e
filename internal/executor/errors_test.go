package executor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorSinkDrainOrdersByLocationThenPath(t *testing.T) {
	sink := &errorSink{}
	sink.append(ExecError{Message: "late", Locations: []Location{{Line: 3, Column: 1}}, Path: []any{"z"}})
	sink.append(ExecError{Message: "early", Locations: []Location{{Line: 1, Column: 5}}, Path: []any{"a"}})
	sink.append(ExecError{Message: "same line", Locations: []Location{{Line: 1, Column: 9}}, Path: []any{"b"}})
	sink.append(ExecError{Message: "tie by path", Locations: []Location{{Line: 3, Column: 1}}, Path: []any{"m"}})

	got := sink.drain()
	require.Equal(t, []string{"early", "same line", "tie by path", "late"},
		[]string{got[0].Message, got[1].Message, got[2].Message, got[3].Message})
}

func TestErrorSinkConcurrentAppend(t *testing.T) {
	sink := &errorSink{}
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.append(ExecError{Message: "e"})
		}()
	}
	wg.Wait()
	require.Len(t, sink.drain(), 32)
}

func TestExecErrorImplementsError(t *testing.T) {
	e := ExecError{Message: "boom"}
	require.EqualError(t, e, "boom")
}
