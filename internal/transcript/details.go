package transcript

import (
	"time"

	"github.com/five82/pulsar/internal/entity"
)

// Details renders the full record of one entity, including the decoded
// response body of a task.
func Details(e entity.Entity) Text {
	var t Text
	t.Write(e.Level.String()+" · "+e.Label, StyleTitle)
	if e.Pinned {
		t.Write(" · pinned", StyleTitle)
	}
	t.Write("\n", StylePlain)
	t.Write(e.CreatedAt.Format(time.RFC3339Nano), StyleDigits)

	if e.Text != "" {
		t.Write("\n\n", StylePlain)
		t.Append(Span{Text: e.Text, Style: StyleMessage, Level: e.Level})
	}

	task := e.Task
	if task == nil {
		return t
	}
	t.Write("\n\n", StylePlain)
	method := task.Method
	if method == "" {
		method = "GET"
	}
	t.Append(Span{Text: method + " " + task.URL, Style: StyleMessage, Level: e.Level})
	t.Write("\n", StylePlain)
	t.Write(entity.StatusTitle(task), statusStyle(task.State))
	if task.Duration > 0 {
		t.Write(" · "+entity.FormatDuration(task.Duration), StyleDigits)
	}
	if len(task.ResponseBody) > 0 {
		t.Write("\n\n", StylePlain)
		appendBody(&t, task.ResponseBody)
	}
	return t
}
