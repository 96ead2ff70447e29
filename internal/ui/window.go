// Package ui is the desktop front end: attach F42 files, merge them and
// open the result.
package ui

import (
	"image/color"
	"io"

	"gioui.org/app"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ryabkov82/f42-merger/internal/session"
)

const title = "Merge F42 - Múltiples Sedes"

type MainWindow struct {
	window  *app.Window
	theme   *material.Theme
	ops     op.Ops
	exp     *explorer.Explorer
	session *session.Session
	opener  Opener
	log     logrus.FieldLogger

	// updates carries state changes from background goroutines to the
	// event loop, which applies them before drawing.
	updates chan func()

	files   []string
	picking bool
	running bool
	status  string
	detail  string
	dialog  *dialog

	attachButton   widget.Clickable
	mergeButton    widget.Clickable
	downloadButton widget.Clickable
	acceptButton   widget.Clickable
	fileList       widget.List
}

func NewMainWindow(s *session.Session, opener Opener, log logrus.FieldLogger) *MainWindow {
	window := new(app.Window)
	window.Option(app.Title(title), app.Size(560, 420))
	mainWindow := &MainWindow{
		window:   window,
		theme:    material.NewTheme(),
		exp:      explorer.NewExplorer(window),
		session:  s,
		opener:   opener,
		log:      log,
		updates:  make(chan func(), 16),
		files:    baseNames(s.Files()),
		fileList: widget.List{List: layout.List{Axis: layout.Vertical}},
	}
	s.RegisterStatusCallback("MainWindow", func(st session.Status) {
		mainWindow.post(func() { mainWindow.applyStatus(st) })
	})
	return mainWindow
}

func (mainWindow *MainWindow) post(fn func()) {
	mainWindow.updates <- fn
	mainWindow.window.Invalidate()
}

func (mainWindow *MainWindow) applyStatus(st session.Status) {
	switch st.State {
	case session.Reading, session.Aligning, session.Writing:
		mainWindow.status = st.Message
		mainWindow.detail = ""
	case session.Errored:
		// the failure text goes to the dialog
	default:
		mainWindow.status = st.Message
	}
	if d := dialogFor(st); d != nil {
		mainWindow.dialog = d
	}
}

// Run processes window events until the window is closed.
func (mainWindow *MainWindow) Run() error {
	for {
		e := mainWindow.window.Event()
		mainWindow.exp.ListenEvents(e)
		switch e := e.(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			mainWindow.drainUpdates()
			ctx := app.NewContext(&mainWindow.ops, e)
			mainWindow.handleEvents(ctx)
			mainWindow.draw(ctx)
			e.Frame(ctx.Ops)
		}
	}
}

func (mainWindow *MainWindow) drainUpdates() {
	for {
		select {
		case fn := <-mainWindow.updates:
			fn()
		default:
			return
		}
	}
}

func (mainWindow *MainWindow) handleEvents(ctx layout.Context) {
	if mainWindow.acceptButton.Clicked(ctx) {
		mainWindow.dialog = nil
	}
	if mainWindow.attachButton.Clicked(ctx) && !mainWindow.picking {
		mainWindow.picking = true
		go mainWindow.chooseFiles()
	}
	if mainWindow.mergeButton.Clicked(ctx) && !mainWindow.running {
		mainWindow.running = true
		mainWindow.detail = ""
		go mainWindow.merge()
	}
	if mainWindow.downloadButton.Clicked(ctx) {
		msg, err := openOutput(mainWindow.opener, mainWindow.session.Output())
		switch {
		case errors.Is(err, errNoOutput):
		case err != nil:
			mainWindow.log.WithError(err).Warn("could not open merged file")
			mainWindow.dialog = locationDialog(msg)
		default:
			mainWindow.detail = msg
		}
	}
}

// chooseFiles blocks on the platform file dialog, so it runs off the event
// loop.
func (mainWindow *MainWindow) chooseFiles() {
	readers, err := mainWindow.exp.ChooseFiles(".xlsx", ".xls")
	var paths []string
	for _, r := range readers {
		if named, ok := r.(interface{ Name() string }); ok {
			paths = append(paths, named.Name())
		}
		closeQuietly(r)
	}

	mainWindow.post(func() {
		mainWindow.picking = false
		switch {
		case errors.Is(err, explorer.ErrUserDecline):
		case err != nil:
			mainWindow.log.WithError(err).Error("file dialog failed")
			mainWindow.detail = err.Error()
		default:
			added := mainWindow.session.Attach(paths...)
			mainWindow.files = baseNames(mainWindow.session.Files())
			mainWindow.log.WithField("added", added).Info("files attached")
		}
	})
}

func (mainWindow *MainWindow) merge() {
	res, err := mainWindow.session.Merge()
	mainWindow.post(func() {
		mainWindow.running = false
		if err != nil {
			return
		}
		mainWindow.detail = res.OutputPath
	})
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}

func (mainWindow *MainWindow) buttonRow(ctx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(
		ctx,
		layout.Rigid(func(ctx layout.Context) layout.Dimensions {
			if mainWindow.picking {
				ctx = ctx.Disabled()
			}
			return material.Button(mainWindow.theme, &mainWindow.attachButton, "Adjuntar archivos F42 Excel").Layout(ctx)
		}),
		layout.Rigid(layout.Spacer{Height: 10}.Layout),
		layout.Rigid(func(ctx layout.Context) layout.Dimensions {
			if mainWindow.running {
				ctx = ctx.Disabled()
			}
			return material.Button(mainWindow.theme, &mainWindow.mergeButton, "Generar F42 Merged").Layout(ctx)
		}),
		layout.Rigid(layout.Spacer{Height: 10}.Layout),
		layout.Rigid(material.Button(mainWindow.theme, &mainWindow.downloadButton, "Descargar F42 Merged").Layout),
	)
}

func (mainWindow *MainWindow) draw(ctx layout.Context) {
	if mainWindow.dialog == nil {
		mainWindow.drawMain(ctx)
		return
	}
	layout.Stack{}.Layout(
		ctx,
		layout.Stacked(func(ctx layout.Context) layout.Dimensions {
			return mainWindow.drawMain(ctx.Disabled())
		}),
		layout.Expanded(mainWindow.drawDialog),
	)
}

// drawDialog dims the window and shows the pending message box.
func (mainWindow *MainWindow) drawDialog(ctx layout.Context) layout.Dimensions {
	d := mainWindow.dialog
	paint.FillShape(ctx.Ops, color.NRGBA{A: 0x99}, clip.Rect{Max: ctx.Constraints.Min}.Op())
	return layout.Center.Layout(ctx, func(ctx layout.Context) layout.Dimensions {
		if w := ctx.Dp(unit.Dp(380)); ctx.Constraints.Max.X > w {
			ctx.Constraints.Max.X = w
		}
		return layout.Background{}.Layout(
			ctx,
			func(ctx layout.Context) layout.Dimensions {
				defer clip.Rect{Max: ctx.Constraints.Min}.Push(ctx.Ops).Pop()
				paint.Fill(ctx.Ops, mainWindow.theme.Palette.Bg)
				return layout.Dimensions{Size: ctx.Constraints.Min}
			},
			func(ctx layout.Context) layout.Dimensions {
				heading := material.H6(mainWindow.theme, d.Title)
				if d.Error {
					heading.Color = color.NRGBA{A: 0xff, R: 0xb0, G: 0x20, B: 0x20}
				}
				return layout.UniformInset(unit.Dp(20)).Layout(ctx, func(ctx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Vertical}.Layout(
						ctx,
						layout.Rigid(heading.Layout),
						layout.Rigid(layout.Spacer{Height: 10}.Layout),
						layout.Rigid(material.Body1(mainWindow.theme, d.Text).Layout),
						layout.Rigid(layout.Spacer{Height: 15}.Layout),
						layout.Rigid(material.Button(mainWindow.theme, &mainWindow.acceptButton, "Aceptar").Layout),
					)
				})
			},
		)
	})
}

func (mainWindow *MainWindow) drawMain(ctx layout.Context) layout.Dimensions {
	status := mainWindow.status
	if len(mainWindow.detail) > 0 {
		status = status + "\n" + mainWindow.detail
	}
	return layout.UniformInset(unit.Dp(15)).Layout(
		ctx,
		func(ctx layout.Context) layout.Dimensions {
			return layout.Flex{
				Axis:    layout.Vertical,
				Spacing: layout.SpaceBetween,
			}.Layout(
				ctx,
				layout.Rigid(mainWindow.buttonRow),
				layout.Rigid(layout.Spacer{Height: 10}.Layout),
				layout.Flexed(1, func(ctx layout.Context) layout.Dimensions {
					return material.List(mainWindow.theme, &mainWindow.fileList).Layout(ctx, len(mainWindow.files), func(ctx layout.Context, i int) layout.Dimensions {
						return layout.Inset{Bottom: unit.Dp(4)}.Layout(ctx, material.Body2(mainWindow.theme, mainWindow.files[i]).Layout)
					})
				}),
				layout.Rigid(material.Label(mainWindow.theme, unit.Sp(15), status).Layout),
			)
		},
	)
}
