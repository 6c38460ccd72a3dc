// pkg/report/report_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test event aggregation and summary rendering

package report_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/arthur-debert/cleanfiles/pkg/report"
	"github.com/arthur-debert/cleanfiles/pkg/ui/styles"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleSummary() *report.Summary {
	s := report.NewSummary("/main", []string{"/aux"})
	s.StageStarted("empty files")
	s.Record(report.Event{Stage: "scan", Action: report.ActionInspected, Path: "/main/empty.log"})
	s.Record(report.Event{Stage: "scan", Action: report.ActionInspected, Path: "/aux/b.txt"})
	s.Record(report.Event{Stage: "empty files", Action: report.ActionDeleted, Path: "/main/empty.log", Detail: "empty"})
	s.StageStarted("duplicates")
	s.StageStarted("merge")
	s.Record(report.Event{Stage: "merge", Action: report.ActionMoved, Path: "/aux/b.txt", Target: "/main/b.txt"})
	s.Record(report.Event{Stage: "merge", Action: report.ActionSkipped, Path: "/aux/c.txt", Target: "/main/c.txt", Detail: "destination exists"})
	return s
}

func TestSummary_Aggregates(t *testing.T) {
	s := sampleSummary()

	assert.NotEmpty(t, s.RunID)
	assert.Equal(t, 2, s.Inspected)
	assert.Equal(t, 2, s.Count(report.ActionInspected))
	assert.Len(t, s.Events, 3, "inspected events are not stored")
	assert.Equal(t, 2, s.Mutations(), "skips are not mutations")
	assert.Equal(t, []string{"/main/empty.log"}, s.Paths(report.ActionDeleted))

	require.Len(t, s.Stages, 3)
	assert.Equal(t, "empty files", s.Stages[0].Name)
	assert.Equal(t, 1, s.Stages[0].Mutations)
	assert.Equal(t, "duplicates", s.Stages[1].Name)
	assert.Zero(t, s.Stages[1].Mutations)
	assert.Equal(t, 1, s.Stages[2].Counts[report.ActionSkipped])
}

func TestSummary_Finish(t *testing.T) {
	s := report.NewSummary("/main", nil)
	s.Finish(fmt.Errorf("boom"))
	assert.Equal(t, "boom", s.Error)
	assert.False(t, s.Finished.Before(s.Started))
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, sampleSummary(), report.FormatJSON))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "/main", decoded["main_dir"])
	assert.EqualValues(t, 2, decoded["inspected"])

	events := decoded["events"].([]interface{})
	require.Len(t, events, 3)
	moved := events[1].(map[string]interface{})
	assert.Equal(t, "moved", moved["action"])
	assert.Equal(t, "/main/b.txt", moved["target"])
	assert.NotContains(t, events[0].(map[string]interface{}), "target")
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, sampleSummary(), report.FormatYAML))

	var decoded struct {
		RunID  string         `yaml:"run_id"`
		Events []report.Event `yaml:"events"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.NotEmpty(t, decoded.RunID)
	require.Len(t, decoded.Events, 3)
	assert.Equal(t, report.ActionSkipped, decoded.Events[2].Action)
	assert.Equal(t, "destination exists", decoded.Events[2].Detail)
}

func TestRender_Text(t *testing.T) {
	styles.SetColorProfile(termenv.Ascii)

	s := sampleSummary()
	s.Finish(fmt.Errorf("stopped early"))

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, s, report.FormatText))
	out := buf.String()

	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "empty files")
	assert.Contains(t, out, "merge")
	assert.Contains(t, out, "2 files inspected, 2 changes")
	assert.Contains(t, out, "Stopped: stopped early")
}

func TestParseFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "yaml"} {
		got, err := report.ParseFormat(f)
		require.NoError(t, err)
		assert.Equal(t, report.Format(f), got)
	}
	_, err := report.ParseFormat("xml")
	assert.Error(t, err)
}

func TestProgress(t *testing.T) {
	styles.SetColorProfile(termenv.Ascii)

	var buf bytes.Buffer
	p := report.NewProgress(&buf, false)
	p.StageStarted("merge")
	p.Record(report.Event{Stage: "scan", Action: report.ActionInspected, Path: "/main/a"})
	p.Record(report.Event{Stage: "merge", Action: report.ActionMoved, Path: "/aux/b", Target: "/main/b"})

	// The header's top margin is a blank line as wide as the header
	margin := strings.Repeat(" ", len("==> merge"))
	assert.Equal(t, margin+"\n==> merge\nmoved     /aux/b -> /main/b\n", buf.String())

	buf.Reset()
	report.NewProgress(&buf, true).Record(report.Event{Action: report.ActionInspected, Path: "/main/a"})
	assert.Equal(t, "inspected /main/a\n", buf.String())
}

func TestMulti(t *testing.T) {
	a := report.NewSummary("/m", nil)
	b := report.NewSummary("/m", nil)
	m := report.Multi{a, b, report.Discard{}}

	m.StageStarted("merge")
	m.Record(report.Event{Stage: "merge", Action: report.ActionCopied, Path: "/aux/x"})
	assert.Equal(t, 1, a.Mutations())
	assert.Equal(t, 1, b.Mutations())
}
