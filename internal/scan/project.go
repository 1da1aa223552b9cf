package scan

import (
	"os"
	"strings"
)

// Kind is the toolchain detected in a project directory.
type Kind string

const (
	KindNone   Kind = ""
	KindCSharp Kind = "csharp"
	KindJS     Kind = "js"
	KindGo     Kind = "go"
	KindRust   Kind = "rust"
	KindLua    Kind = "lua"
)

// Project is a discovered project directory. Path is absolute.
type Project struct {
	Path string
	Kind Kind
}

// String renders the path followed by the detected kind, e.g. "/src/app [go]".
func (p Project) String() string {
	if p.Kind == KindNone {
		return p.Path
	}
	return p.Path + " [" + string(p.Kind) + "]"
}

// isProject reports whether a directory listing marks a project root: a .git
// directory, or a Visual Studio solution or project file.
func isProject(entries []os.DirEntry) bool {
	for _, entry := range entries {
		if entry.Name() == ".git" && entry.IsDir() {
			return true
		}
	}
	for _, entry := range entries {
		if isCSharpMarker(entry.Name()) {
			return true
		}
	}
	return false
}

// classify returns the kind of the first entry that identifies a toolchain.
func classify(entries []os.DirEntry) Kind {
	for _, entry := range entries {
		if kind := kindOf(entry.Name()); kind != KindNone {
			return kind
		}
	}
	return KindNone
}

func kindOf(name string) Kind {
	switch {
	case isCSharpMarker(name):
		return KindCSharp
	case name == "package.json":
		return KindJS
	case name == "go.mod":
		return KindGo
	case name == "Cargo.toml":
		return KindRust
	case strings.HasSuffix(name, ".lua") || name == "lua":
		return KindLua
	default:
		return KindNone
	}
}

func isCSharpMarker(name string) bool {
	return strings.HasSuffix(name, ".sln") || strings.HasSuffix(name, ".csproj")
}
