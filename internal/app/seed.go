package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/pulsar/internal/entity"
	"github.com/five82/pulsar/internal/logtail"
	"github.com/five82/pulsar/internal/store"
)

const demoStackTrace = `Replace this implementation with code to handle the error appropriately. panic() causes the application to print a stack trace and exit. You should not use it for expected failures, although it may be useful during development.

goroutine 1 [running]:
main.(*Dashboard).Load(0xc000010250)
	/src/dashboard.go:42 +0x1d
main.(*App).Navigate(0xc00001c030, {0x4b2f31, 0x9})
	/src/app.go:88 +0x6b
main.main()
	/src/main.go:17 +0x45`

// demoEntities returns a short session: app lifecycle messages, a
// successful login request, a failed profile request and two alarming
// messages.
func demoEntities(now time.Time) []entity.Entity {
	at := func(ms int) time.Time { return now.Add(time.Duration(ms) * time.Millisecond) }
	return []entity.Entity{
		{CreatedAt: at(0), Level: entity.LevelInfo, Label: "application", Text: "Application did finish launching"},
		{CreatedAt: at(12), Level: entity.LevelInfo, Label: "application", Text: "Application will enter foreground"},
		{CreatedAt: at(40), Level: entity.LevelTrace, Label: "auth", Text: "Instantiated Session"},
		{CreatedAt: at(41), Level: entity.LevelTrace, Label: "auth", Text: "Instantiated the new login request"},
		{CreatedAt: at(55), Level: entity.LevelDebug, Label: "network", Task: &entity.Task{
			Method:       "POST",
			URL:          "https://github.com/login",
			State:        entity.TaskSuccess,
			StatusCode:   200,
			Duration:     412 * time.Millisecond,
			ResponseBody: []byte(`{"user":{"login":"kean","id":1567433,"plan":{"name":"pro","collaborators":0}},"token":"c2VjcmV0","scopes":["repo","gist"]}`),
		}},
		{CreatedAt: at(470), Level: entity.LevelDebug, Label: "application", Text: "Will navigate to Dashboard"},
		{CreatedAt: at(480), Level: entity.LevelError, Label: "network", Task: &entity.Task{
			Method:       "GET",
			URL:          "https://github.com/profile/valdo",
			State:        entity.TaskFailure,
			StatusCode:   404,
			Duration:     188 * time.Millisecond,
			ResponseBody: []byte(`{"message":"Not Found","documentation_url":"https://docs.github.com/rest"}`),
		}},
		{CreatedAt: at(700), Level: entity.LevelWarning, Label: "auth", Text: demoStackTrace},
		{CreatedAt: at(701), Level: entity.LevelCritical, Label: "default", Text: "💥 0xDEADBEEF"},
	}
}

// seedDemo inserts the demo session.
func seedDemo(ctx context.Context, w store.Writer, now time.Time) error {
	for _, e := range demoEntities(now) {
		if _, err := w.Insert(ctx, e); err != nil {
			return fmt.Errorf("seed demo: %w", err)
		}
	}
	return nil
}

// importFile loads the last maxRecords entities of an NDJSON file.
func importFile(ctx context.Context, w store.Writer, path string, maxRecords int) (int, int, error) {
	imp, err := logtail.ReadRecords(path, maxRecords)
	if err != nil {
		return 0, 0, fmt.Errorf("import %s: %w", path, err)
	}
	for i, rec := range imp.Records {
		e := rec.Entity()
		e.ID = 0
		if _, err := w.Insert(ctx, e); err != nil {
			return i, imp.Skipped, fmt.Errorf("import %s: %w", path, err)
		}
	}
	return len(imp.Records), imp.Skipped, nil
}
