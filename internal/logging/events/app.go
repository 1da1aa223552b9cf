package events

import "github.com/atomicstack/term-sessionizer/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Command(name string, args []string) {
	logging.Trace("app.command", map[string]interface{}{"command": name, "args": args})
}

func (AppTracer) Interrupt(signal string) {
	logging.Trace("app.interrupt", map[string]interface{}{"signal": signal})
}

func (AppTracer) Emit(line string) {
	logging.Trace("app.emit", map[string]interface{}{"line": line})
}

func (AppTracer) Exit(code int) {
	logging.Trace("app.exit", map[string]interface{}{"code": code})
}

func (AppTracer) ColorProfile(profile string) {
	logging.Trace("app.color_profile", map[string]interface{}{"profile": profile})
}
