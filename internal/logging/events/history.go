package events

import "github.com/atomicstack/term-sessionizer/internal/logging"

type HistoryTracer struct{}

var History = HistoryTracer{}

func (HistoryTracer) Record(dir string, times int) {
	logging.Trace("history.record", map[string]interface{}{"dir": dir, "times": times})
}

func (HistoryTracer) Evict(dir string, times int) {
	logging.Trace("history.evict", map[string]interface{}{"dir": dir, "times": times})
}

func (HistoryTracer) Expand(query, result, match string) {
	logging.Trace("history.expand", map[string]interface{}{"query": query, "result": result, "match": match})
}
