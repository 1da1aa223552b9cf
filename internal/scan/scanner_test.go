package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/term-sessionizer/internal/picker"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
}

func touch(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, file := range files {
		path := filepath.Join(root, file)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
}

// collect drains messages until Finish and returns the projects and progress
// texts seen along the way.
func collect(t *testing.T, ch <-chan picker.Message[Project]) ([]Project, []string) {
	t.Helper()
	var projects []Project
	var progress []string
	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg := <-ch:
			switch msg.Kind {
			case picker.MsgItemsFound:
				projects = append(projects, msg.Items...)
			case picker.MsgProgressUpdate:
				progress = append(progress, msg.Progress)
			case picker.MsgFinish:
				return projects, progress
			}
		case <-timeout:
			t.Fatal("scan did not finish")
		}
	}
}

func TestScannerFindsProjectsInNameOrder(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "b/.git", "a/.git", "c/nested/.git", "node_modules/dep/.git", "plain")
	touch(t, root, "a/go.mod", "b/package.json", "d/App.sln", "a/inner/.git/HEAD")

	ch := make(chan picker.Message[Project], 64)
	s, err := Start(context.Background(), root, ch, Options{ProgressInterval: -1})
	require.NoError(t, err)
	projects, _ := collect(t, ch)
	s.Wait()

	want := []Project{
		{Path: filepath.Join(root, "a"), Kind: KindGo},
		{Path: filepath.Join(root, "b"), Kind: KindJS},
		{Path: filepath.Join(root, "c", "nested"), Kind: KindNone},
		{Path: filepath.Join(root, "d"), Kind: KindCSharp},
	}
	assert.Equal(t, want, projects)
}

func TestScannerReportsProgressBeforeEachDirectory(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "x/y")

	ch := make(chan picker.Message[Project], 64)
	s, err := Start(context.Background(), root, ch, Options{ProgressInterval: -1})
	require.NoError(t, err)
	_, progress := collect(t, ch)
	s.Wait()

	assert.Equal(t, []string{
		"Last found directory:" + root,
		"Last found directory:" + filepath.Join(root, "x"),
		"Last found directory:" + filepath.Join(root, "x", "y"),
	}, progress)
}

func TestScannerThrottlesProgress(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "a", "b", "c", "d")

	ch := make(chan picker.Message[Project], 64)
	s, err := Start(context.Background(), root, ch, Options{ProgressInterval: time.Hour})
	require.NoError(t, err)
	_, progress := collect(t, ch)
	s.Wait()

	assert.Equal(t, []string{"Last found directory:" + root}, progress)
}

func TestScannerHonoursCustomIgnore(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "vendor/lib/.git", "node_modules/pkg/.git", "src/.git")

	ch := make(chan picker.Message[Project], 64)
	s, err := Start(context.Background(), root, ch, Options{Ignore: []string{"vendor"}})
	require.NoError(t, err)
	projects, _ := collect(t, ch)
	s.Wait()

	assert.Equal(t, []Project{
		{Path: filepath.Join(root, "node_modules", "pkg")},
		{Path: filepath.Join(root, "src")},
	}, projects)
}

func TestScannerRootProject(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, ".git", "sub/.git")
	touch(t, root, "Cargo.toml")

	ch := make(chan picker.Message[Project], 64)
	s, err := Start(context.Background(), root, ch, Options{})
	require.NoError(t, err)
	projects, _ := collect(t, ch)
	s.Wait()

	assert.Equal(t, []Project{{Path: root, Kind: KindRust}}, projects)
}

func TestScannerStopAbandonsBlockedSend(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "a/.git", "b/.git")

	ch := make(chan picker.Message[Project])
	s, err := Start(context.Background(), root, ch, Options{})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scanner did not stop while blocked on send")
	}
}

func TestStartRejectsMissingRoot(t *testing.T) {
	_, err := Start(context.Background(), filepath.Join(t.TempDir(), "missing"), make(chan picker.Message[Project]), Options{})
	require.Error(t, err)
}

func TestStartRejectsFileRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "file.txt")
	_, err := Start(context.Background(), filepath.Join(root, "file.txt"), make(chan picker.Message[Project]), Options{})
	require.ErrorContains(t, err, "not a directory")
}

func TestResolveRootExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	mkdirs(t, home, "code")

	got, err := ResolveRoot("~/code")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "code"), got)
}

func TestProjectString(t *testing.T) {
	assert.Equal(t, "/src/app [go]", Project{Path: "/src/app", Kind: KindGo}.String())
	assert.Equal(t, "/src/app", Project{Path: "/src/app"}.String())
}

func TestClassifyUsesFirstKnownMarker(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "Cargo.toml", "init.lua", "README.md")
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Equal(t, KindRust, classify(entries))
	assert.False(t, isProject(entries))
}

func TestThrottleDropsEarlyCalls(t *testing.T) {
	th := newThrottle(time.Hour)
	assert.True(t, th.allow())
	assert.False(t, th.allow())
	assert.True(t, newThrottle(0).allow())
}
