// Package resolve turns a detected problem and its policy into a decision.
//
// Nothing here touches the filesystem. A Resolver answers "what should happen
// to this file or group", asking its decision.Provider when the policy is
// Ask. The pipeline applies the answer.
package resolve

import (
	"fmt"
	"strconv"

	"github.com/arthur-debert/cleanfiles/pkg/conflicts"
	"github.com/arthur-debert/cleanfiles/pkg/decision"
	"github.com/arthur-debert/cleanfiles/pkg/errors"
	"github.com/arthur-debert/cleanfiles/pkg/logging"
	"github.com/arthur-debert/cleanfiles/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// Kind identifies a conflict group flavour
type Kind int

const (
	// Duplicate groups share content; the oldest is the proposed survivor
	Duplicate Kind = iota

	// NameCollision groups share a filename; the newest is the proposed survivor
	NameCollision
)

func (k Kind) String() string {
	if k == NameCollision {
		return "name collision"
	}
	return "duplicate"
}

// Outcome is the resolution of one conflict group
type Outcome struct {
	Survivor types.FileRecord
	Remove   []types.FileRecord

	// Asked is true when the survivor came from the decision provider
	Asked bool
}

// Method is how an auxiliary file reaches the main root
type Method int

const (
	Move Method = iota
	Copy
)

func (m Method) String() string {
	if m == Copy {
		return "copy"
	}
	return "move"
}

// Merge prompt keys
const (
	KeyCopy = "c"
	KeyMove = "m"
)

// Resolver decides. It is not safe for concurrent use since providers are not.
type Resolver struct {
	provider decision.Provider
}

// New creates a Resolver backed by provider
func New(provider decision.Provider) *Resolver {
	return &Resolver{provider: provider}
}

// Group picks the survivor of a conflict group. Always keeps the proposed
// survivor without prompting; Never and Ask both ask, since a group is
// always reduced to one file.
func (r *Resolver) Group(kind Kind, group conflicts.Group, policy types.Policy, rank RootRank) (Outcome, error) {
	logger := logging.GetLogger("resolve")

	var candidates []types.FileRecord
	if kind == NameCollision {
		candidates = NewestFirst(group.Records, rank)
	} else {
		candidates = OldestFirst(group.Records, rank)
	}
	if len(candidates) == 0 {
		return Outcome{}, errors.New(errors.ErrInternal, "empty conflict group")
	}

	if policy == types.PolicyAlways {
		logger.Debug().
			Str("kind", kind.String()).
			Str("survivor", candidates[0].AbsPath()).
			Int("size", len(candidates)).
			Msg("Keeping proposed survivor")
		return outcome(candidates, 0, false), nil
	}

	key, err := r.ask(groupPrompt(kind, group, candidates))
	if err != nil {
		return Outcome{}, err
	}
	index, err := strconv.Atoi(key)
	if err != nil || index < 1 || index > len(candidates) {
		return Outcome{}, errors.Newf(errors.ErrInternal, "provider returned %q outside the allowed options", key)
	}
	return outcome(candidates, index-1, true), nil
}

// Delete decides whether to remove a file; reason says why it qualifies
func (r *Resolver) Delete(record types.FileRecord, reason string, policy types.Policy) (bool, error) {
	return r.confirm(policy, decision.YesNo(
		fmt.Sprintf("%s is %s. Delete it?", record.AbsPath(), reason),
		"delete", "keep"))
}

// SetPermissions decides whether to chmod a file to want
func (r *Resolver) SetPermissions(record types.FileRecord, want string, policy types.Policy) (bool, error) {
	return r.confirm(policy, decision.YesNo(
		fmt.Sprintf("%s has permissions %s. Change them to %s?", record.AbsPath(), record.Permissions, want),
		"change", "leave"))
}

// Rename decides whether to rename a file to newName in its directory
func (r *Resolver) Rename(record types.FileRecord, newName string, policy types.Policy) (bool, error) {
	return r.confirm(policy, decision.YesNo(
		fmt.Sprintf("Rename %s to %s?", record.AbsPath(), newName),
		"rename", "leave"))
}

// Transfer decides whether an auxiliary file is copied or moved to dest.
// Always means copy, Never means move.
func (r *Resolver) Transfer(record types.FileRecord, dest string, policy types.Policy) (Method, error) {
	switch policy {
	case types.PolicyAlways:
		return Copy, nil
	case types.PolicyNever:
		return Move, nil
	}

	key, err := r.ask(decision.Prompt{
		Question: fmt.Sprintf("Merge %s into %s:", record.AbsPath(), dest),
		Choices: []decision.Choice{
			{Key: KeyCopy, Label: "copy (keep the original)"},
			{Key: KeyMove, Label: "move", Recommended: true},
		},
	})
	if err != nil {
		return Move, err
	}
	if key == KeyCopy {
		return Copy, nil
	}
	return Move, nil
}

func (r *Resolver) confirm(policy types.Policy, prompt decision.Prompt) (bool, error) {
	switch policy {
	case types.PolicyAlways:
		return true, nil
	case types.PolicyNever:
		return false, nil
	}
	prompt.Choices[0].Recommended = true
	key, err := r.ask(prompt)
	if err != nil {
		return false, err
	}
	return key == decision.Yes, nil
}

func (r *Resolver) ask(prompt decision.Prompt) (string, error) {
	if r.provider == nil {
		return "", errors.Newf(errors.ErrInputClosed, "no decision provider to answer %q", prompt.Question)
	}
	answer, err := r.provider.Choose(prompt)
	if err != nil {
		return "", err
	}
	key, ok := prompt.Match(answer)
	if !ok {
		return "", errors.Newf(errors.ErrInternal, "provider returned %q outside the allowed options", answer)
	}
	return key, nil
}

func groupPrompt(kind Kind, group conflicts.Group, candidates []types.FileRecord) decision.Prompt {
	var question string
	if kind == NameCollision {
		question = fmt.Sprintf("%d files are named %q. Which version should be kept?", len(candidates), group.Key)
	} else {
		question = fmt.Sprintf("%d files have identical content. Which copy should be kept?", len(candidates))
	}

	choices := make([]decision.Choice, len(candidates))
	for i, c := range candidates {
		choices[i] = decision.Choice{
			Key:         strconv.Itoa(i + 1),
			Label:       fmt.Sprintf("%s  %s", c.AbsPath(), c.ModTime.Format(timeLayout)),
			Recommended: i == 0,
		}
	}
	return decision.Prompt{Question: question, Choices: choices}
}

func outcome(candidates []types.FileRecord, keep int, asked bool) Outcome {
	o := Outcome{Survivor: candidates[keep], Asked: asked}
	for i, c := range candidates {
		if i != keep {
			o.Remove = append(o.Remove, c)
		}
	}
	return o
}
