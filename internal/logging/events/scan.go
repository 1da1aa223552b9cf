package events

import "github.com/atomicstack/term-sessionizer/internal/logging"

type ScanTracer struct{}

var Scan = ScanTracer{}

func (ScanTracer) Start(root string, ignore []string) {
	logging.Trace("scan.start", map[string]interface{}{"root": root, "ignore": ignore})
}

func (ScanTracer) Found(path string, kinds []string) {
	logging.Trace("scan.found", map[string]interface{}{"path": path, "kinds": kinds})
}

func (ScanTracer) Skip(path string, err error) {
	payload := map[string]interface{}{"path": path}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("scan.skip", payload)
}

func (ScanTracer) Done(projects, dirs int, cancelled bool) {
	logging.Trace("scan.done", map[string]interface{}{
		"projects":  projects,
		"dirs":      dirs,
		"cancelled": cancelled,
	})
}
