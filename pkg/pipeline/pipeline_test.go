// pkg/pipeline/pipeline_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: In-memory filesystem, scripted decision provider
// PURPOSE: Test stage ordering, rescans, conflict resolution and merging

package pipeline_test

import (
	"context"
	"os"
	"testing"

	"github.com/arthur-debert/cleanfiles/pkg/config"
	"github.com/arthur-debert/cleanfiles/pkg/decision"
	"github.com/arthur-debert/cleanfiles/pkg/errors"
	"github.com/arthur-debert/cleanfiles/pkg/pipeline"
	"github.com/arthur-debert/cleanfiles/pkg/report"
	"github.com/arthur-debert/cleanfiles/pkg/testutil"
	"github.com/arthur-debert/cleanfiles/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mainDir = "/main"
	auxDir  = "/aux"
)

func alwaysConfig() *config.Config {
	cfg := config.Default()
	cfg.MainDir = mainDir
	cfg.AuxDirs = []string{auxDir}
	cfg.Files.ProblematicChars = "*?"
	cfg.Actions = types.AllAlways()
	cfg.Actions.Copy = types.PolicyNever
	return cfg
}

func newTree(t *testing.T) *testutil.Tree {
	return testutil.NewTree(t).Dir(mainDir).Dir(auxDir)
}

func run(t *testing.T, cfg *config.Config, fsys afero.Fs, provider decision.Provider) (*report.Summary, *pipeline.Pipeline, error) {
	t.Helper()
	summary := report.NewSummary(cfg.MainDir, cfg.AuxDirs)
	p := pipeline.New(cfg, pipeline.Options{Fs: fsys, Provider: provider, Recorder: summary})
	err := p.Run(context.Background())
	summary.Finish(err)
	return summary, p, err
}

func TestRun_DuplicateKeepsOldest(t *testing.T) {
	tree := newTree(t).
		FileAt("/main/a.txt", "X", testutil.At(1)).
		FileAt("/aux/b.txt", "X", testutil.At(2))

	summary, _, err := run(t, alwaysConfig(), tree.Fs, nil)
	require.NoError(t, err)

	assert.True(t, tree.Exists("/main/a.txt"))
	assert.False(t, tree.Exists("/aux/b.txt"))
	assert.Equal(t, []string{"/aux/b.txt"}, summary.Paths(report.ActionDeleted))
	assert.Equal(t, []string{"a.txt"}, tree.Files(mainDir))
}

func TestRun_SanitizesProblematicName(t *testing.T) {
	tree := newTree(t).File("/main/bad*name?.txt", "content")

	summary, _, err := run(t, alwaysConfig(), tree.Fs, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"bad_name_.txt"}, tree.Files(mainDir))
	require.Len(t, summary.Events, 1)
	assert.Equal(t, report.Event{
		Stage:  pipeline.StageNames,
		Action: report.ActionRenamed,
		Path:   "/main/bad*name?.txt",
		Target: "/main/bad_name_.txt",
	}, summary.Events[0])
}

func TestRun_DeletesEmptyFile(t *testing.T) {
	tree := newTree(t).
		File("/main/empty.log", "").
		File("/main/keep.txt", "data")

	summary, _, err := run(t, alwaysConfig(), tree.Fs, nil)
	require.NoError(t, err)

	assert.False(t, tree.Exists("/main/empty.log"))
	assert.Equal(t, []string{"/main/empty.log"}, summary.Paths(report.ActionDeleted))
	assert.Equal(t, pipeline.StageEmpty, summary.Events[0].Stage)
}

func TestRun_LaterStagesSeeEarlierMutations(t *testing.T) {
	// Both files are empty temporaries and identical: only the first stage
	// may touch them, any stale record would make a later delete fail.
	tree := newTree(t).
		File("/main/a.tmp", "").
		File("/aux/sub/a.tmp", "").
		File("/main/notes.txt~", "draft")

	summary, _, err := run(t, alwaysConfig(), tree.Fs, nil)
	require.NoError(t, err)

	assert.Empty(t, tree.Files(mainDir))
	assert.Empty(t, tree.Files(auxDir))

	byStage := map[string][]string{}
	for _, e := range summary.Events {
		byStage[e.Stage] = append(byStage[e.Stage], e.Path)
	}
	assert.ElementsMatch(t, []string{"/main/a.tmp", "/aux/sub/a.tmp"}, byStage[pipeline.StageEmpty])
	assert.Equal(t, []string{"/main/notes.txt~"}, byStage[pipeline.StageTemporary])
	assert.Empty(t, byStage[pipeline.StageDuplicates])
}

func TestRun_NameCollisionKeepsNewest(t *testing.T) {
	tree := newTree(t).
		FileAt("/main/docs/report.pdf", "v1", testutil.At(1)).
		FileAt("/aux/report.pdf", "v3", testutil.At(3)).
		FileAt("/aux/old/report.pdf", "v2", testutil.At(2))

	summary, _, err := run(t, alwaysConfig(), tree.Fs, nil)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"/main/docs/report.pdf", "/aux/old/report.pdf"},
		summary.Paths(report.ActionDeleted))
	assert.Equal(t, []string{"report.pdf"}, tree.Files(mainDir))
	assert.Equal(t, "v3", tree.Read("/main/report.pdf"))
	assert.Empty(t, tree.Files(auxDir))
}

func TestRun_PermissionsNormalized(t *testing.T) {
	tree := newTree(t).
		FileWith("/main/private.txt", testutil.FileSpec{Content: "p", Mode: 0600}).
		FileWith("/aux/script.sh", testutil.FileSpec{Content: "s", Mode: 0755})

	cfg := alwaysConfig()
	summary, _, err := run(t, cfg, tree.Fs, nil)
	require.NoError(t, err)

	assert.Equal(t, os.FileMode(0644), tree.Mode("/main/private.txt"))
	assert.Equal(t, os.FileMode(0644), tree.Mode("/main/script.sh"), "merged after chmod")

	var details []string
	for _, e := range summary.Events {
		if e.Action == report.ActionChmod {
			details = append(details, e.Detail)
		}
	}
	assert.Equal(t, []string{"rw------- -> rw-r--r--", "rwxr-xr-x -> rw-r--r--"}, details)
}

func TestRun_SpecialBitsInDefaultPermissions(t *testing.T) {
	tree := newTree(t).File("/main/tool", "bin")

	cfg := alwaysConfig()
	cfg.Files.DefaultFileAccessRights = "rwsr-xr-t"
	_, _, err := run(t, cfg, tree.Fs, nil)
	require.NoError(t, err)

	assert.Equal(t, os.FileMode(0755)|os.ModeSetuid|os.ModeSticky, tree.Mode("/main/tool"))
}

func TestRun_MergeMovesIntoMain(t *testing.T) {
	tree := newTree(t).
		FileAt("/aux/deep/nested/file.txt", "n", testutil.At(4)).
		File("/aux/top.txt", "t")

	summary, _, err := run(t, alwaysConfig(), tree.Fs, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"deep/nested/file.txt", "top.txt"}, tree.Files(mainDir))
	assert.Empty(t, tree.Files(auxDir))
	assert.Equal(t, 2, summary.Count(report.ActionMoved))
	assert.Equal(t, "n", tree.Read("/main/deep/nested/file.txt"))
}

func TestRun_MergeCopiesWhenAlways(t *testing.T) {
	tree := newTree(t).FileAt("/aux/a.txt", "a", testutil.At(9))

	cfg := alwaysConfig()
	cfg.Actions.Copy = types.PolicyAlways
	summary, _, err := run(t, cfg, tree.Fs, nil)
	require.NoError(t, err)

	assert.True(t, tree.Exists("/aux/a.txt"))
	assert.Equal(t, "a", tree.Read("/main/a.txt"))
	info, err := tree.Fs.Stat("/main/a.txt")
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(testutil.At(9)))
	assert.Equal(t, []string{"/aux/a.txt"}, summary.Paths(report.ActionCopied))
}

func TestRun_CopyMergeConverges(t *testing.T) {
	tree := newTree(t).FileAt("/aux/a.txt", "a", testutil.At(9))

	cfg := alwaysConfig()
	cfg.Actions.Copy = types.PolicyAlways
	_, _, err := run(t, cfg, tree.Fs, nil)
	require.NoError(t, err)

	// The copy carries the original mtime, so the main copy wins the tie.
	second, _, err := run(t, cfg, tree.Fs, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/aux/a.txt"}, second.Paths(report.ActionDeleted))
	assert.Zero(t, second.Count(report.ActionCopied))
	assert.Equal(t, "a", tree.Read("/main/a.txt"))

	third, p, err := run(t, cfg, tree.Fs, nil)
	require.NoError(t, err)
	assert.Zero(t, p.Mutations())
	assert.Zero(t, third.Mutations())
}

func TestRun_MergeSkipsPathBlockedByFile(t *testing.T) {
	tree := newTree(t).
		File("/main/docs", "not a directory").
		File("/aux/docs/b.txt", "b").
		File("/aux/z.txt", "z")

	summary, _, err := run(t, alwaysConfig(), tree.Fs, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"/aux/docs/b.txt"}, summary.Paths(report.ActionSkipped))
	assert.Equal(t, []string{"/aux/z.txt"}, summary.Paths(report.ActionMoved))
	assert.Equal(t, "not a directory", tree.Read("/main/docs"))
	assert.Equal(t, "b", tree.Read("/aux/docs/b.txt"))
}

func TestRun_NeverOverwrites(t *testing.T) {
	// The rename happens after name collisions were resolved, so the merge
	// meets a taken destination.
	tree := newTree(t).
		FileAt("/main/x/a_.txt", "main", testutil.At(1)).
		FileAt("/aux/x/a?.txt", "aux", testutil.At(2)).
		File("/main/b?.txt", "one").
		File("/main/b_.txt", "two")

	summary, p, err := run(t, alwaysConfig(), tree.Fs, nil)
	require.NoError(t, err)

	assert.Equal(t, "main", tree.Read("/main/x/a_.txt"))
	assert.Equal(t, "aux", tree.Read("/aux/x/a_.txt"))
	assert.Equal(t, "one", tree.Read("/main/b?.txt"))
	assert.Equal(t, "two", tree.Read("/main/b_.txt"))

	assert.ElementsMatch(t, []string{"/main/b?.txt", "/aux/x/a_.txt"}, summary.Paths(report.ActionSkipped))
	assert.Equal(t, 1, p.Mutations(), "only the auxiliary rename")
}

func TestRun_Idempotent(t *testing.T) {
	tree := newTree(t).
		File("/main/empty", "").
		File("/main/draft.tmp", "d").
		FileAt("/main/a.txt", "X", testutil.At(1)).
		FileAt("/aux/copy-of-a.txt", "X", testutil.At(2)).
		FileAt("/main/notes/todo.md", "old", testutil.At(1)).
		FileAt("/aux/todo.md", "new", testutil.At(5)).
		FileWith("/aux/run?.sh", testutil.FileSpec{Content: "#!/bin/sh", Mode: 0700}).
		File("/aux/photos/cat.jpg", "meow")

	cfg := alwaysConfig()
	first, p1, err := run(t, cfg, tree.Fs, nil)
	require.NoError(t, err)
	assert.Positive(t, p1.Mutations())
	assert.Positive(t, first.Mutations())

	assert.Equal(t,
		[]string{"a.txt", "photos/cat.jpg", "run_.sh", "todo.md"},
		tree.Files(mainDir))
	assert.Empty(t, tree.Files(auxDir))
	assert.Equal(t, "new", tree.Read("/main/todo.md"))

	second, p2, err := run(t, cfg, tree.Fs, nil)
	require.NoError(t, err)
	assert.Zero(t, p2.Mutations())
	assert.Zero(t, second.Mutations())
	assert.Empty(t, second.Events)
	assert.Equal(t, 4, second.Inspected)
}

func TestRun_AskUsesProvider(t *testing.T) {
	tree := newTree(t).
		File("/main/empty.log", "").
		FileAt("/main/a.txt", "X", testutil.At(1)).
		FileAt("/aux/b.txt", "X", testutil.At(2))

	cfg := alwaysConfig()
	cfg.Actions = types.Actions{}

	// keep empty.log, keep the newer duplicate, then move it
	provider := decision.NewScripted("n", "2", "m")
	summary, _, err := run(t, cfg, tree.Fs, provider)
	require.NoError(t, err)

	assert.Zero(t, provider.Remaining())
	require.Len(t, provider.Asked, 3)
	assert.Contains(t, provider.Asked[0].Question, "/main/empty.log is empty")
	assert.Contains(t, provider.Asked[1].Question, "identical content")
	assert.Contains(t, provider.Asked[2].Question, "Merge /aux/b.txt")

	assert.Equal(t, []string{"b.txt", "empty.log"}, tree.Files(mainDir))
	assert.Equal(t, []string{"/main/a.txt"}, summary.Paths(report.ActionDeleted))
}

func TestRun_NeverStillReducesGroups(t *testing.T) {
	tree := newTree(t).
		FileAt("/main/a.txt", "X", testutil.At(1)).
		FileAt("/main/b.txt", "X", testutil.At(2))

	cfg := alwaysConfig()
	cfg.Actions.ReplaceOldVersion = types.PolicyNever

	provider := new(testutil.MockProvider)
	provider.On("Choose", testutil.QuestionContains("identical content")).Return("1", nil).Once()

	_, _, err := run(t, cfg, tree.Fs, provider)
	require.NoError(t, err)
	provider.AssertExpectations(t)
	assert.Equal(t, []string{"a.txt"}, tree.Files(mainDir))
}

func TestRun_NeverLeavesFilesAlone(t *testing.T) {
	tree := newTree(t).
		File("/main/empty", "").
		FileWith("/main/odd?.txt", testutil.FileSpec{Content: "o", Mode: 0600}).
		File("/aux/extra.txt", "e")

	cfg := alwaysConfig()
	cfg.Actions.Delete = types.PolicyNever
	cfg.Actions.SetDefaultAttributes = types.PolicyNever
	cfg.Actions.Rename = types.PolicyNever

	summary, _, err := run(t, cfg, tree.Fs, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"empty", "extra.txt", "odd?.txt"}, tree.Files(mainDir))
	assert.Equal(t, os.FileMode(0600), tree.Mode("/main/odd?.txt"))
	assert.Equal(t, 1, summary.Mutations())
}

func TestRun_InputClosedAborts(t *testing.T) {
	tree := newTree(t).File("/main/empty.log", "").File("/aux/x.txt", "x")

	cfg := alwaysConfig()
	cfg.Actions.Delete = types.PolicyAsk

	_, p, err := run(t, cfg, tree.Fs, decision.NewScripted())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInputClosed))
	assert.Equal(t, pipeline.StageEmpty, errors.GetErrorDetails(err)["stage"])
	assert.Zero(t, p.Mutations())
	assert.True(t, tree.Exists("/aux/x.txt"), "later stages did not run")
}

// failingFs refuses to remove one path
type failingFs struct {
	afero.Fs
	path string
}

func (f *failingFs) Remove(name string) error {
	if name == f.path {
		return os.ErrPermission
	}
	return f.Fs.Remove(name)
}

func TestRun_PartialFailureIsNotRolledBack(t *testing.T) {
	tree := newTree(t).
		FileAt("/main/a.txt", "X", testutil.At(1)).
		FileAt("/main/b.txt", "X", testutil.At(2)).
		FileAt("/main/c.txt", "X", testutil.At(3)).
		File("/aux/later.txt", "l")
	fsys := &failingFs{Fs: tree.Fs, path: "/main/c.txt"}

	summary, _, err := run(t, alwaysConfig(), fsys, nil)
	require.Error(t, err)

	assert.True(t, errors.IsErrorCode(err, errors.ErrFileDelete))
	assert.True(t, errors.IsFilesystemError(err))
	details := errors.GetErrorDetails(err)
	assert.Equal(t, "/main/c.txt", details["path"])
	assert.Equal(t, pipeline.StageDuplicates, details["stage"])

	assert.Equal(t, []string{"a.txt", "c.txt"}, tree.Files(mainDir))
	assert.True(t, tree.Exists("/aux/later.txt"))
	assert.Equal(t, []string{"/main/b.txt"}, summary.Paths(report.ActionDeleted))
	assert.NotEmpty(t, summary.Error)
}

func TestRun_UnreadableRootAborts(t *testing.T) {
	tree := testutil.NewTree(t).Dir(mainDir)

	_, _, err := run(t, alwaysConfig(), tree.Fs, nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileRead))
}

func TestRun_DryRun(t *testing.T) {
	tree := newTree(t).
		File("/main/empty.log", "").
		FileAt("/main/a.txt", "X", testutil.At(1)).
		FileAt("/aux/b.txt", "X", testutil.At(2)).
		FileWith("/aux/c?.txt", testutil.FileSpec{Content: "c", Mode: 0600})

	cfg := alwaysConfig()
	cfg.Actions = types.Actions{DoNothing: true}

	summary, p, err := run(t, cfg, tree.Fs, nil)
	require.NoError(t, err)

	assert.Zero(t, p.Mutations())
	assert.Equal(t, []string{"a.txt", "empty.log"}, tree.Files(mainDir))
	assert.Equal(t, []string{"b.txt", "c?.txt"}, tree.Files(auxDir))

	require.NotEmpty(t, summary.Events)
	for _, e := range summary.Events {
		if e.Action.IsMutation() {
			assert.Contains(t, e.Detail, "dry run")
		}
	}
	assert.Contains(t, summary.Paths(report.ActionDeleted), "/main/empty.log")
	assert.Contains(t, summary.Paths(report.ActionRenamed), "/aux/c?.txt")
}

func TestRun_Excludes(t *testing.T) {
	tree := newTree(t).
		File("/main/.git/empty", "").
		File("/aux/.git/config", "x")

	cfg := alwaysConfig()
	cfg.Files.Exclude = []string{".git", ".git/**"}

	summary, _, err := run(t, cfg, tree.Fs, nil)
	require.NoError(t, err)
	assert.True(t, tree.Exists("/main/.git/empty"))
	assert.True(t, tree.Exists("/aux/.git/config"))
	assert.Zero(t, summary.Inspected)
}

func TestRun_CancelledContext(t *testing.T) {
	tree := newTree(t).File("/main/empty", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := pipeline.New(alwaysConfig(), pipeline.Options{Fs: tree.Fs})
	err := p.Run(ctx)
	require.Error(t, err)
	assert.True(t, tree.Exists("/main/empty"))
}

func TestRun_InspectedEvents(t *testing.T) {
	tree := newTree(t).File("/main/a", "a").File("/aux/b", "b")

	var events []report.Event
	recorder := recorderFunc(func(e report.Event) { events = append(events, e) })

	p := pipeline.New(alwaysConfig(), pipeline.Options{Fs: tree.Fs, Recorder: recorder})
	require.NoError(t, p.Run(context.Background()))

	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, report.Event{Stage: pipeline.StageScan, Action: report.ActionInspected, Path: "/main/a"}, events[0])
	assert.Equal(t, report.Event{Stage: pipeline.StageScan, Action: report.ActionInspected, Path: "/aux/b"}, events[1])
}

type recorderFunc func(report.Event)

func (f recorderFunc) StageStarted(string)   {}
func (f recorderFunc) Record(e report.Event) { f(e) }
