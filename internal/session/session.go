// Package session keeps the list of attached F42 files and the merged
// result between user actions, and drives merges through their states.
package session

import (
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ryabkov82/f42-merger/internal/merger"
)

type State int

const (
	Idle State = iota
	Reading
	Aligning
	Writing
	Done
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Reading:
		return "reading"
	case Aligning:
		return "aligning"
	case Writing:
		return "writing"
	case Done:
		return "done"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// ErrBusy is returned by Merge while another merge is running.
var ErrBusy = errors.New("a merge is already running")

// Status is sent to the registered callbacks on every state change.
type Status struct {
	State   State
	Message string
	Err     error
	Output  string
}

type Session struct {
	mu        sync.Mutex
	merger    merger.FileMerger
	files     []string
	seen      map[string]bool
	output    string
	state     State
	callbacks map[string]func(Status)
	log       logrus.FieldLogger
}

func New(m merger.FileMerger, log logrus.FieldLogger) *Session {
	return &Session{
		merger:    m,
		seen:      make(map[string]bool),
		callbacks: make(map[string]func(Status)),
		log:       log,
	}
}

// RegisterStatusCallback adds fn under id, replacing an earlier callback
// with the same id.
func (s *Session) RegisterStatusCallback(id string, fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks[id] = fn
}

func (s *Session) dispatchStatus(st Status) {
	s.mu.Lock()
	fns := make([]func(Status), 0, len(s.callbacks))
	for _, fn := range s.callbacks {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// Attach adds paths not attached yet and returns how many were added.
func (s *Session) Attach(paths ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if s.seen[p] {
			continue
		}
		s.seen[p] = true
		s.files = append(s.files, p)
		added++
	}
	if added > 0 {
		s.log.WithFields(logrus.Fields{
			"added": added,
			"total": len(s.files),
		}).Debug("files attached")
	}
	return added
}

// Files returns a copy of the attached paths in attach order.
func (s *Session) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.files...)
}

// Output returns the path of the last merged file, or "" if none.
func (s *Session) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state State, st Status) {
	s.mu.Lock()
	s.state = state
	st.State = state
	if st.Output == "" {
		st.Output = s.output
	}
	s.mu.Unlock()
	s.dispatchStatus(st)
}

// Merge merges the attached files. Without attached files it returns
// merger.ErrNoFiles and the state stays Idle. On failure the attached files
// and the previous output are kept and the session goes back to Idle.
func (s *Session) Merge() (*merger.Result, error) {
	s.mu.Lock()
	if s.state != Idle && s.state != Done {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	files := append([]string(nil), s.files...)
	if len(files) == 0 {
		s.mu.Unlock()
		s.log.Info("merge requested without attached files")
		s.dispatchStatus(Status{State: s.State(), Message: MsgNoFiles, Err: merger.ErrNoFiles, Output: s.Output()})
		return nil, merger.ErrNoFiles
	}
	s.state = Reading
	s.mu.Unlock()

	s.dispatchStatus(Status{State: Reading, Message: MsgProcessing, Output: s.Output()})

	res, err := s.mergeFiles(files)
	if err != nil {
		s.log.WithError(err).Error("merge failed")
		s.setState(Errored, Status{Message: failureMessage(err), Err: err})
		s.setState(Idle, Status{Message: MsgFailed, Err: err})
		return nil, err
	}

	s.mu.Lock()
	s.output = res.OutputPath
	s.mu.Unlock()
	s.setState(Done, Status{Message: MsgDone, Output: res.OutputPath})
	return res, nil
}

// mergeFiles runs the merger. A panic is returned as an error so that the
// session still goes back to Idle.
func (s *Session) mergeFiles(files []string) (res *merger.Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			err = errors.Errorf("merge panic: %v", p)
		}
	}()

	return s.merger.MergeFiles(files, func(p merger.Phase) {
		switch p {
		case merger.PhaseAligning:
			s.setState(Aligning, Status{Message: MsgProcessing})
		case merger.PhaseWriting:
			s.setState(Writing, Status{Message: MsgProcessing})
		}
	})
}

// User facing status texts.
const (
	MsgNoFiles    = "Debe seleccionar al menos un archivo F42 Excel."
	MsgProcessing = "Procesando archivos..."
	MsgDone       = "Archivo F42 merged generado"
	MsgFailed     = "Error durante el procesamiento"
	MsgNoTables   = "No se pudieron leer los archivos. Verifique el formato."
)

func failureMessage(err error) string {
	if errors.Is(err, merger.ErrNoTables) {
		return MsgNoTables
	}
	return "Ocurrió un error al procesar: " + err.Error()
}
