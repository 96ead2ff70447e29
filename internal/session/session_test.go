package session

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryabkov82/f42-merger/internal/merger"
)

type fakeMerger struct {
	calls  [][]string
	err    error
	output string
	block  chan struct{}
}

func (f *fakeMerger) MergeFiles(paths []string, onPhase func(merger.Phase)) (*merger.Result, error) {
	f.calls = append(f.calls, paths)
	onPhase(merger.PhaseReading)
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	onPhase(merger.PhaseAligning)
	onPhase(merger.PhaseWriting)
	return &merger.Result{OutputPath: f.output, FilesRead: paths, RowCount: len(paths)}, nil
}

func newSession(m merger.FileMerger) (*Session, *[]Status) {
	log, _ := test.NewNullLogger()
	s := New(m, log)
	var (
		mu       sync.Mutex
		statuses []Status
	)
	s.RegisterStatusCallback("test", func(st Status) {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, st)
	})
	return s, &statuses
}

func states(statuses []Status) []State {
	out := make([]State, len(statuses))
	for i, st := range statuses {
		out[i] = st.State
	}
	return out
}

func TestAttach(t *testing.T) {
	s, _ := newSession(&fakeMerger{})

	assert.Equal(t, 2, s.Attach("a.xlsx", "dir/b.xlsx"))
	assert.Equal(t, 1, s.Attach("a.xlsx", "dir/../c.xls", "dir/./b.xlsx", ""))
	assert.Equal(t, 0, s.Attach("c.xls"))
	assert.Equal(t, []string{"a.xlsx", filepath.Join("dir", "b.xlsx"), "c.xls"}, s.Files())

	files := s.Files()
	files[0] = "changed"
	assert.Equal(t, "a.xlsx", s.Files()[0])
}

func TestMergeNoFiles(t *testing.T) {
	m := &fakeMerger{}
	s, statuses := newSession(m)

	res, err := s.Merge()
	assert.Nil(t, res)
	assert.ErrorIs(t, err, merger.ErrNoFiles)
	assert.Empty(t, m.calls)
	assert.Equal(t, Idle, s.State())
	assert.Empty(t, s.Output())

	require.Len(t, *statuses, 1)
	assert.Equal(t, Idle, (*statuses)[0].State)
	assert.Equal(t, MsgNoFiles, (*statuses)[0].Message)
}

func TestMergeSuccess(t *testing.T) {
	m := &fakeMerger{output: "/tmp/f42_merge_1/F42_MERGED.xlsx"}
	s, statuses := newSession(m)
	s.Attach("a.xlsx", "b.xlsx", "a.xlsx")

	res, err := s.Merge()
	require.NoError(t, err)
	assert.Equal(t, 2, res.RowCount)
	assert.Equal(t, [][]string{{"a.xlsx", "b.xlsx"}}, m.calls)
	assert.Equal(t, Done, s.State())
	assert.Equal(t, m.output, s.Output())

	assert.Equal(t, []State{Reading, Aligning, Writing, Done}, states(*statuses))
	last := (*statuses)[len(*statuses)-1]
	assert.Equal(t, MsgDone, last.Message)
	assert.Equal(t, m.output, last.Output)
}

func TestMergeAgainReplacesOutput(t *testing.T) {
	m := &fakeMerger{output: "first.xlsx"}
	s, _ := newSession(m)
	s.Attach("a.xlsx")

	_, err := s.Merge()
	require.NoError(t, err)
	m.output = "second.xlsx"
	_, err = s.Merge()
	require.NoError(t, err)
	assert.Equal(t, "second.xlsx", s.Output())
	assert.Len(t, m.calls, 2)
}

func TestMergeFailureKeepsState(t *testing.T) {
	m := &fakeMerger{output: "first.xlsx"}
	s, statuses := newSession(m)
	s.Attach("a.xlsx", "b.xlsx")
	_, err := s.Merge()
	require.NoError(t, err)

	*statuses = nil
	m.err = errors.Wrap(merger.ErrNoTables, "2 of 2 files failed")
	res, err := s.Merge()
	assert.Nil(t, res)
	assert.ErrorIs(t, err, merger.ErrNoTables)

	assert.Equal(t, Idle, s.State())
	assert.Equal(t, "first.xlsx", s.Output())
	assert.Equal(t, []string{"a.xlsx", "b.xlsx"}, s.Files())

	assert.Equal(t, []State{Reading, Errored, Idle}, states(*statuses))
	assert.Equal(t, MsgNoTables, (*statuses)[1].Message)
	assert.ErrorIs(t, (*statuses)[1].Err, merger.ErrNoTables)
	assert.Equal(t, MsgFailed, (*statuses)[2].Message)
}

func TestMergeWriteFailureMessage(t *testing.T) {
	m := &fakeMerger{err: &merger.WriteError{Path: "out.xlsx", Err: errors.New("disk full")}}
	s, statuses := newSession(m)
	s.Attach("a.xlsx")

	_, err := s.Merge()
	require.Error(t, err)
	assert.Equal(t, "Ocurrió un error al procesar: writing out.xlsx: disk full", (*statuses)[1].Message)
	assert.Empty(t, s.Output())
}

func TestMergeBusy(t *testing.T) {
	m := &fakeMerger{block: make(chan struct{}), output: "out.xlsx"}
	s, _ := newSession(m)
	s.Attach("a.xlsx")

	reading := make(chan struct{})
	s.RegisterStatusCallback("reading", func(st Status) {
		if st.State == Reading {
			close(reading)
		}
	})

	done := make(chan error)
	go func() {
		_, err := s.Merge()
		done <- err
	}()

	<-reading
	_, err := s.Merge()
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, Reading, s.State())

	close(m.block)
	require.NoError(t, <-done)
	assert.Equal(t, Done, s.State())
}

type panickingMerger struct {
	after merger.Phase
}

func (p panickingMerger) MergeFiles(paths []string, onPhase func(merger.Phase)) (*merger.Result, error) {
	onPhase(merger.PhaseReading)
	if p.after >= merger.PhaseAligning {
		onPhase(merger.PhaseAligning)
	}
	if p.after >= merger.PhaseWriting {
		onPhase(merger.PhaseWriting)
	}
	panic("index out of range")
}

func TestMergePanicReturnsToIdle(t *testing.T) {
	for _, phase := range []merger.Phase{merger.PhaseReading, merger.PhaseWriting} {
		t.Run(phase.String(), func(t *testing.T) {
			s, statuses := newSession(panickingMerger{after: phase})
			s.Attach("a.xlsx")

			var (
				res *merger.Result
				err error
			)
			require.NotPanics(t, func() { res, err = s.Merge() })
			assert.Nil(t, res)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "index out of range")

			assert.Equal(t, Idle, s.State())
			assert.Equal(t, []string{"a.xlsx"}, s.Files())
			last := (*statuses)[len(*statuses)-1]
			assert.Equal(t, Idle, last.State)
			assert.Equal(t, MsgFailed, last.Message)

			_, err = s.Merge()
			assert.NotErrorIs(t, err, ErrBusy)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "errored", Errored.String())
	assert.Equal(t, "unknown", State(42).String())
}
