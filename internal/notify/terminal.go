package notify

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"modelreviews/internal/moderation"
)

var (
	loadingPrefix = color.New(color.FgHiBlue).Sprint("…")
	successPrefix = color.New(color.FgHiGreen).Sprint("✓")
	errorPrefix   = color.New(color.FgHiRed).Sprint("✗")
	bold          = color.New(color.Bold).SprintFunc()
	faint         = color.New(color.Faint).SprintFunc()
)

// TerminalSink prints notifications as prefixed lines. Hidden notifications
// print nothing; a loading line is simply superseded by the next line.
type TerminalSink struct {
	Out     io.Writer
	Verbose bool
}

func (s TerminalSink) Render(e Event) {
	if e.Type == EventHidden {
		return
	}
	n := e.Notification

	prefix := loadingPrefix
	switch n.Kind {
	case moderation.NotificationSuccess:
		prefix = successPrefix
	case moderation.NotificationError:
		prefix = errorPrefix
	}

	line := n.Message
	if n.Title != "" {
		line = fmt.Sprintf("%s: %s", bold(n.Title), n.Message)
	}
	fmt.Fprintf(s.Out, "%s %s\n", prefix, line)

	if s.Verbose && n.Detail != "" && n.Detail != n.Message {
		fmt.Fprintf(s.Out, "  %s\n", faint(n.Detail))
	}
}
