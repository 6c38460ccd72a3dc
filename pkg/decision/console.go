package decision

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/cleanfiles/pkg/errors"
	"github.com/arthur-debert/cleanfiles/pkg/logging"
	"github.com/arthur-debert/cleanfiles/pkg/ui/styles"
	"github.com/rs/zerolog"
)

// Console asks on a line based terminal
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	logger zerolog.Logger
}

// NewConsole creates a console provider reading answers from in
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:     bufio.NewReader(in),
		out:    out,
		logger: logging.GetLogger("decision"),
	}
}

// Choose prints the prompt and reads lines until one names an allowed
// option. It fails only when the input ends or cannot be read.
func (c *Console) Choose(prompt Prompt) (string, error) {
	if len(prompt.Choices) == 0 {
		return "", errors.Newf(errors.ErrInternal, "prompt %q has no choices", prompt.Question)
	}

	c.render(prompt)
	for {
		_, _ = fmt.Fprintf(c.out, "%s ", styles.Render("Prompt", fmt.Sprintf("Choose [%s]:", strings.Join(prompt.Options(), "/"))))

		line, readErr := c.in.ReadString('\n')
		if key, ok := prompt.Match(line); ok {
			c.logger.Debug().Str("question", prompt.Question).Str("answer", key).Msg("Answered")
			return key, nil
		}

		if readErr != nil {
			_, _ = fmt.Fprintln(c.out)
			if stderrors.Is(readErr, io.EOF) {
				return "", errors.New(errors.ErrInputClosed, "input closed before a valid answer was given")
			}
			return "", errors.Wrap(readErr, errors.ErrInputClosed, "failed to read answer")
		}

		invalid := errors.Newf(errors.ErrInvalidInput, "invalid answer %q", strings.TrimSpace(line))
		c.logger.Debug().Err(invalid).Msg("Re-prompting")
		_, _ = fmt.Fprintln(c.out, styles.Render("Warning", fmt.Sprintf("%q is not one of %s", strings.TrimSpace(line), strings.Join(prompt.Options(), ", "))))
	}
}

func (c *Console) render(prompt Prompt) {
	_, _ = fmt.Fprintln(c.out)
	_, _ = fmt.Fprintln(c.out, styles.Render("Bold", prompt.Question))
	for _, choice := range prompt.Choices {
		line := fmt.Sprintf("  %s) %s", choice.Key, choice.Label)
		if choice.Recommended {
			line = styles.Render("Recommended", line+" (suggested)")
		}
		_, _ = fmt.Fprintln(c.out, line)
	}
}
