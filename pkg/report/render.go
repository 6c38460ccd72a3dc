package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/arthur-debert/cleanfiles/pkg/ui/styles"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Format selects how a Summary is rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Render writes the summary in the given format
func Render(w io.Writer, s *Summary, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(s); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return renderText(w, s)
	}
}

var tableActions = []Action{ActionDeleted, ActionRenamed, ActionChmod, ActionMoved, ActionCopied, ActionSkipped}

func renderText(w io.Writer, s *Summary) error {
	data := pterm.TableData{{"Stage", "deleted", "renamed", "chmod", "moved", "copied", "skipped"}}
	for _, st := range s.Stages {
		row := []string{st.Name}
		for _, a := range tableActions {
			row = append(row, strconv.Itoa(st.Counts[a]))
		}
		data = append(data, row)
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, styles.Render("Header", "Summary")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, table); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%d files inspected, %d changes (run %s)\n", s.Inspected, s.Mutations(), s.RunID)
	if err != nil {
		return err
	}
	if s.Error != "" {
		_, err = fmt.Fprintln(w, styles.Render("Error", "Stopped: "+s.Error))
	}
	return err
}
