package events

import "github.com/atomicstack/term-sessionizer/internal/logging"

type PickerTracer struct{}

type QueryTracer struct{}

var (
	Picker = PickerTracer{}
	Query  = QueryTracer{}
)

func (PickerTracer) Start(prompt string, items, limit int) {
	logging.Trace("picker.start", map[string]interface{}{
		"prompt": prompt,
		"items":  items,
		"limit":  limit,
	})
}

func (PickerTracer) Message(kind string, items int) {
	logging.Trace("picker.message", map[string]interface{}{"kind": kind, "items": items})
}

func (PickerTracer) Rescore(query string, items, predictions int, repaint bool) {
	logging.Trace("picker.rescore", map[string]interface{}{
		"query":       query,
		"items":       items,
		"predictions": predictions,
		"repaint":     repaint,
	})
}

func (PickerTracer) Repaint(lines int) {
	logging.Trace("picker.repaint", map[string]interface{}{"lines": lines})
}

func (PickerTracer) Key(key string) {
	logging.Trace("picker.key", map[string]interface{}{"key": key})
}

func (PickerTracer) Selection(index int) {
	logging.Trace("picker.selection", map[string]interface{}{"index": index})
}

func (PickerTracer) Finish(outcome, item string) {
	logging.Trace("picker.finish", map[string]interface{}{"outcome": outcome, "item": item})
}

func (PickerTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("picker.error", map[string]interface{}{"error": err.Error()})
}

func (QueryTracer) Insert(query string, cursor int) {
	logging.Trace("query.insert", map[string]interface{}{"query": query, "cursor": cursor})
}

func (QueryTracer) Reject(query string, r rune) {
	logging.Trace("query.reject", map[string]interface{}{"query": query, "rune": string(r)})
}

func (QueryTracer) Backspace(query string, cursor int) {
	logging.Trace("query.backspace", map[string]interface{}{"query": query, "cursor": cursor})
}

func (QueryTracer) Cursor(cursor int) {
	logging.Trace("query.cursor", map[string]interface{}{"cursor": cursor})
}
