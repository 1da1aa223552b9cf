package main

import (
	"reflect"
	"testing"
	"time"

	"github.com/atomicstack/term-sessionizer/internal/app"
	"github.com/atomicstack/term-sessionizer/internal/config"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			Root:         "~/src",
			Prompt:       "Select repository",
			Limit:        12,
			PollInterval: 10 * time.Millisecond,
			Algorithm:    "fzf",
			Ignore:       []string{"node_modules"},
			NewTab:       true,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"limit":   "12",
			"new-tab": "true",
			"prompt":  "Select repository",
		},
		Args: []string{"--limit", "12", "-n", "~/src"},
		File: "/home/user/.config/term-sessionizer/config.toml",
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["limit"] != "12" {
		t.Fatalf("expected limit flag 12, got %v", flagsValue["limit"])
	}
	if flagsValue["new-tab"] != "true" {
		t.Fatalf("expected new-tab flag true, got %v", flagsValue["new-tab"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}
	if payload["configFile"] != cfg.File {
		t.Fatalf("expected config file %q, got %v", cfg.File, payload["configFile"])
	}

	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	} else if !reflect.DeepEqual(cfgValue.App, cfg.App) {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, cfgValue.App)
	}
}
