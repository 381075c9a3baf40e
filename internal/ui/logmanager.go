// internal/ui/logmanager.go
package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const DefaultMaxLogMessages = 100

// LogUIManager keeps the recent log lines and pages through them in the
// status bar. Call it on the Fyne thread.
type LogUIManager struct {
	logMessages     []string
	currentLogIndex int
	maxLogMessages  int

	statusLogLabel   *widget.Label
	statusLogUpBtn   *widget.Button
	statusLogDownBtn *widget.Button
}

// NewLogUIManager builds the status bar widgets and their manager.
func NewLogUIManager(maxMessages int) *LogUIManager {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxLogMessages
	}
	lm := &LogUIManager{
		logMessages:     make([]string, 0, maxMessages),
		currentLogIndex: -1,
		maxLogMessages:  maxMessages,
		statusLogLabel:  widget.NewLabel(""),
	}
	lm.statusLogLabel.Truncation = fyne.TextTruncateEllipsis
	lm.statusLogUpBtn = widget.NewButtonWithIcon("", theme.MoveUpIcon(), lm.ShowPreviousLogMessage)
	lm.statusLogDownBtn = widget.NewButtonWithIcon("", theme.MoveDownIcon(), lm.ShowNextLogMessage)
	lm.UpdateLogDisplay()
	return lm
}

// Bar returns the status bar row.
func (lm *LogUIManager) Bar() fyne.CanvasObject {
	return container.NewBorder(nil, nil,
		container.NewHBox(lm.statusLogUpBtn, lm.statusLogDownBtn), nil,
		lm.statusLogLabel)
}

func (lm *LogUIManager) AddLogMessage(message string) {
	lm.logMessages = append(lm.logMessages, message)
	if len(lm.logMessages) > lm.maxLogMessages {
		lm.logMessages = lm.logMessages[len(lm.logMessages)-lm.maxLogMessages:]
	}
	lm.currentLogIndex = len(lm.logMessages) - 1
	lm.UpdateLogDisplay()
}

// Messages returns the retained lines, oldest first.
func (lm *LogUIManager) Messages() []string {
	return append([]string(nil), lm.logMessages...)
}

func (lm *LogUIManager) UpdateLogDisplay() {
	if len(lm.logMessages) == 0 {
		lm.statusLogLabel.SetText("")
		lm.statusLogUpBtn.Disable()
		lm.statusLogDownBtn.Disable()
		return
	}

	if lm.currentLogIndex < 0 {
		lm.currentLogIndex = 0
	} else if lm.currentLogIndex >= len(lm.logMessages) {
		lm.currentLogIndex = len(lm.logMessages) - 1
	}

	lm.statusLogLabel.SetText(fmt.Sprintf("[%d/%d] %s", lm.currentLogIndex+1, len(lm.logMessages), lm.logMessages[lm.currentLogIndex]))
	if lm.currentLogIndex <= 0 {
		lm.statusLogUpBtn.Disable()
	} else {
		lm.statusLogUpBtn.Enable()
	}
	if lm.currentLogIndex >= len(lm.logMessages)-1 {
		lm.statusLogDownBtn.Disable()
	} else {
		lm.statusLogDownBtn.Enable()
	}
}

func (lm *LogUIManager) ShowPreviousLogMessage() {
	if len(lm.logMessages) == 0 || lm.currentLogIndex <= 0 {
		return
	}
	lm.currentLogIndex--
	lm.UpdateLogDisplay()
}

func (lm *LogUIManager) ShowNextLogMessage() {
	if len(lm.logMessages) == 0 || lm.currentLogIndex >= len(lm.logMessages)-1 {
		return
	}
	lm.currentLogIndex++
	lm.UpdateLogDisplay()
}
