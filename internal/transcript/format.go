package transcript

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/pulsar/internal/entity"
)

const elapsedCutoff = 24 * time.Hour

// formatEntity renders a single entity. base is the creation time of the
// first entity in the snapshot. It returns where the message text starts in
// t and how many of its bytes were written; at is -1 for tasks.
func formatEntity(t *Text, e entity.Entity, id uuid.UUID, base time.Time, opts Options) (at, n int) {
	writePrefix(t, e, base, opts)
	if e.Task != nil {
		formatTask(t, e, id, opts)
		return -1, 0
	}
	return formatMessage(t, e, id, opts)
}

func writePrefix(t *Text, e entity.Entity, base time.Time, opts Options) {
	prefix := entity.FormatTimeOfDay(e.CreatedAt) + " · "
	if !opts.Compact {
		if elapsed := e.CreatedAt.Sub(base); elapsed < elapsedCutoff {
			prefix += entity.FormatElapsed(elapsed) + " · "
		}
	}
	t.Write(prefix, StyleDigits)
}

func formatMessage(t *Text, e entity.Entity, id uuid.UUID, opts Options) (at, n int) {
	var title string
	if !opts.Compact {
		title = e.Level.String() + " · "
	}
	title += e.Label
	if opts.Compact {
		title += " "
	} else {
		title += "\n"
	}
	t.Write(title, StyleTitle)

	at = t.Len()
	if opts.Compact {
		if first, _, multiline := strings.Cut(e.Text, "\n"); multiline {
			t.Append(Span{Text: first + " ", Style: StyleMessage, Level: e.Level})
			t.Append(Span{Text: "Show More", Style: StyleLink, Level: e.Level, Link: Link{Kind: LinkShowMore, ID: id}})
			return at, len(first)
		}
	}
	t.Append(Span{Text: e.Text, Style: StyleMessage, Level: e.Level})
	return at, len(e.Text)
}

func formatTask(t *Text, e entity.Entity, id uuid.UUID, opts Options) {
	task := e.Task
	title := entity.StatusTitle(task)
	if task.Duration > 0 {
		title += " · " + entity.FormatDuration(task.Duration)
	}
	t.Write(title+" ", statusStyle(task.State))
	if opts.Compact {
		t.Write(" ", StyleTitle)
	} else {
		t.Write("\n", StyleTitle)
	}

	method := task.Method
	if method == "" {
		method = "GET"
	}
	url := task.URL
	if url == "" {
		url = "–"
	}
	t.Append(Span{
		Text:  method + " " + url + " ",
		Style: StyleLink,
		Level: e.Level,
		Link:  Link{Kind: LinkToggleInfo, ID: id},
	})

	if opts.NetworkExpanded && len(task.ResponseBody) > 0 {
		t.Write("\n", StylePlain)
		appendBody(t, task.ResponseBody)
	}
}

func statusStyle(state entity.TaskState) Style {
	switch state {
	case entity.TaskSuccess:
		return StyleSuccess
	case entity.TaskFailure:
		return StyleFailure
	default:
		return StylePending
	}
}
