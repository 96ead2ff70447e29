package ui

import (
	"github.com/pkg/errors"

	"github.com/ryabkov82/f42-merger/internal/merger"
	"github.com/ryabkov82/f42-merger/internal/session"
)

// dialog is a message box drawn over the window until the user accepts it.
type dialog struct {
	Title string
	Text  string
	Error bool
}

// dialogFor returns the message box to show for a session status, or nil.
func dialogFor(st session.Status) *dialog {
	switch {
	case st.State == session.Errored:
		return &dialog{Title: "Error", Text: st.Message, Error: true}
	case st.State == session.Done:
		return &dialog{Title: "Éxito", Text: st.Message}
	case st.State == session.Idle && errors.Is(st.Err, merger.ErrNoFiles):
		return &dialog{Title: "Info", Text: st.Message}
	}
	return nil
}

// locationDialog tells the user where the merged file is when it could not
// be opened.
func locationDialog(text string) *dialog {
	return &dialog{Title: "Ubicación", Text: text}
}
