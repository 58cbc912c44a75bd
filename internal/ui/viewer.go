package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"specline/internal/domain"
	"specline/internal/extractor"
)

// maxTraceFrames is how many backtrace frames the details pane shows
const maxTraceFrames = 20

// Viewer displays failures interactively
type Viewer interface {
	View(failures []domain.Failure) error
}

// FailureViewer browses failures in a terminal UI
type FailureViewer struct {
	extractor *extractor.Extractor
}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(ex *extractor.Extractor) *FailureViewer {
	if ex == nil {
		ex = extractor.Default()
	}
	return &FailureViewer{extractor: ex}
}

// BuildFailure pairs a Failed event with its extracted line
func (fv *FailureViewer) BuildFailure(ev domain.Event) domain.Failure {
	failure := domain.Failure{Description: ev.Description, Frame: -1}
	if ev.Failure == nil {
		return failure
	}
	failure.Record = *ev.Failure
	if loc, idx, ok := fv.extractor.Locate(ev.Failure.Backtrace); ok {
		failure.Line = extractor.Format(loc, ev.Failure.Message)
		failure.Frame = idx
	}
	return failure
}

// View runs the interactive viewer until the user quits
func (fv *FailureViewer) View(failures []domain.Failure) error {
	if len(failures) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i, failure := range failures {
		list.AddItem(listItemText(i, failure), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(headerText(failures))

	updateDetails := func(index int) {
		if index >= 0 && index < len(failures) {
			detailsView.SetText(detailsText(failures[index])).ScrollToBeginning()
		}
	}

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails(index)
	})

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	updateDetails(0)

	// List on the left (1/3), details on the right (2/3)
	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(detailsView, 0, 2, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(body, 0, 1, true)

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func headerText(failures []domain.Failure) string {
	located := 0
	for _, f := range failures {
		if f.Line != "" {
			located++
		}
	}
	return fmt.Sprintf(" Failures (%d total, %d located) | ↑↓ navigate, → details, ← back, q quit ", len(failures), located)
}

func listItemText(index int, failure domain.Failure) string {
	label := failure.Line
	if label == "" {
		label = failure.Description
		if label == "" {
			label = fmt.Sprintf("Failure %d", index+1)
		}
		return fmt.Sprintf("[gray]%d. %s (no spec frame)[white]", index+1, tview.Escape(label))
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(label))
}

func detailsText(failure domain.Failure) string {
	var b strings.Builder

	if failure.Description != "" {
		fmt.Fprintf(&b, "[red]✗ %s[white]\n\n", tview.Escape(failure.Description))
	}
	if failure.Line != "" {
		fmt.Fprintf(&b, "[cyan]Line:[white] %s\n", tview.Escape(failure.Line))
	} else {
		b.WriteString("[gray]No spec frame in backtrace; nothing is reported for this failure.[white]\n")
	}
	if failure.Record.Class != "" {
		fmt.Fprintf(&b, "[cyan]Class:[white] %s\n", tview.Escape(failure.Record.Class))
	}
	b.WriteString("\n")

	if failure.Record.Message != "" {
		fmt.Fprintf(&b, "[yellow]Message:[white]\n%s\n\n", tview.Escape(strings.TrimSpace(failure.Record.Message)))
	}

	trace := failure.Record.Backtrace
	if len(trace) > 0 {
		b.WriteString("[yellow]Backtrace:[white]\n")
		for i, frame := range trace {
			if i >= maxTraceFrames {
				fmt.Fprintf(&b, "  [gray]... and %d more frames[white]\n", len(trace)-maxTraceFrames)
				break
			}
			if i == failure.Frame {
				fmt.Fprintf(&b, "[green]» %s[white]\n", tview.Escape(frame))
				continue
			}
			fmt.Fprintf(&b, "  %s\n", tview.Escape(frame))
		}
	}

	return b.String()
}
