package task

import (
	"taskclient/internal/document"
	"taskclient/pkg/logging"
)

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithStrictFields makes the parser reject tasks whose id, title or
// description is absent. By default absent fields become empty strings.
func WithStrictFields() ParserOption {
	return func(p *Parser) {
		p.strict = true
	}
}

// Parser turns a task API response envelope into a Task.
type Parser struct {
	strict bool
}

// NewParser creates a Parser. It is stateless and safe for concurrent use.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts a Task from the envelope
//
//	{"response_id": ..., "request_id": ..., "data": {"type": "task", "id": ..., "details": {"title": ..., "desc": ...}}}
//
// A nil document fails with "No data found in response"; a data.type other
// than "task" fails with an "Unsupported entry type" message.
func (p *Parser) Parse(doc *document.Node) (Task, error) {
	if doc == nil {
		return Task{}, NewHandlingError("No data found in response")
	}

	if logging.Enabled(logging.LevelDebug) {
		logging.Debug("TaskParser", "Parsing response body: responseId=%s, requestId=%s",
			doc.Field("response_id"), doc.Field("request_id"))
	}

	data := doc.Field("data")
	entryType := data.Field("type")
	if t, ok := entryType.Text(); !ok || t != EntryType {
		return Task{}, NewHandlingError("Unsupported entry type: '%s', '%s' expected", entryType, EntryType)
	}

	details := data.Field("details")
	task := Task{
		ID:          data.Field("id").TextOrEmpty(),
		Title:       details.Field("title").TextOrEmpty(),
		Description: details.Field("desc").TextOrEmpty(),
	}

	if p.strict {
		if err := requireFields(task); err != nil {
			return Task{}, err
		}
	}

	logging.Debug("TaskParser", "Task parsed: id=%s, title=%s", task.ID, task.Title)
	return task, nil
}

func requireFields(t Task) error {
	switch {
	case t.ID == "":
		return NewHandlingError("Incomplete task entry: 'data.id' is missing")
	case t.Title == "":
		return NewHandlingError("Incomplete task entry: 'data.details.title' is missing")
	case t.Description == "":
		return NewHandlingError("Incomplete task entry: 'data.details.desc' is missing")
	}
	return nil
}
