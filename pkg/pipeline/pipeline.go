// Package pipeline runs a cleanup: scan, classify, resolve, mutate, repeated
// for every stage in a fixed order, then merges the auxiliary directories into
// the main one.
//
// The pipeline owns the current snapshot. A stage works on the snapshot taken
// before it; when the stage changed anything the next stage gets a fresh one,
// so no stage ever sees a file an earlier stage removed or renamed.
package pipeline

import (
	"context"
	stderrors "errors"

	"github.com/arthur-debert/cleanfiles/pkg/config"
	"github.com/arthur-debert/cleanfiles/pkg/decision"
	"github.com/arthur-debert/cleanfiles/pkg/errors"
	"github.com/arthur-debert/cleanfiles/pkg/filesystem"
	"github.com/arthur-debert/cleanfiles/pkg/index"
	"github.com/arthur-debert/cleanfiles/pkg/logging"
	"github.com/arthur-debert/cleanfiles/pkg/report"
	"github.com/arthur-debert/cleanfiles/pkg/resolve"
	"github.com/arthur-debert/cleanfiles/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Stage names, in execution order
const (
	StageEmpty          = "empty files"
	StageTemporary      = "temporary files"
	StageDuplicates     = "duplicates"
	StageNameCollisions = "name collisions"
	StagePermissions    = "permissions"
	StageNames          = "problematic names"
	StageMerge          = "merge"

	// StageScan labels the inspected events of a snapshot
	StageScan = "scan"
)

// Stages lists the stage names in execution order
var Stages = []string{
	StageEmpty,
	StageTemporary,
	StageDuplicates,
	StageNameCollisions,
	StagePermissions,
	StageNames,
	StageMerge,
}

// Options wires a pipeline to its collaborators
type Options struct {
	// Fs defaults to the OS filesystem
	Fs afero.Fs

	// Provider answers Ask policies. Dry runs ignore it.
	Provider decision.Provider

	// Recorder receives the event stream; defaults to report.Discard
	Recorder report.Recorder
}

// Pipeline runs one cleanup. It is single use and not safe for concurrent use.
type Pipeline struct {
	cfg      *config.Config
	mutator  *filesystem.Mutator
	scanner  *index.Scanner
	resolver *resolve.Resolver
	recorder report.Recorder
	logger   zerolog.Logger
	dryRun   bool

	stage     string
	mutations int
}

type stageFunc func(snap *types.Snapshot) error

// New creates a pipeline for cfg
func New(cfg *config.Config, opts Options) *Pipeline {
	fsys := opts.Fs
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = report.Discard{}
	}
	provider := opts.Provider
	if cfg.Actions.DoNothing {
		provider = decision.Recommended{}
	}

	p := &Pipeline{
		cfg:      cfg,
		mutator:  filesystem.NewMutator(fsys),
		resolver: resolve.New(provider),
		recorder: recorder,
		logger:   logging.GetLogger("pipeline"),
		dryRun:   cfg.Actions.DoNothing,
		stage:    StageScan,
	}
	p.scanner = index.NewScanner(fsys, index.Options{
		Excludes:  cfg.Files.Exclude,
		OnInspect: p.inspected,
	})
	return p
}

// Run executes every stage in order. The context is checked between stages
// only: a started stage always runs to completion or to its first error.
// Mutations done before an error are not rolled back.
func (p *Pipeline) Run(ctx context.Context) error {
	done := logging.LogOperationStart(p.logger, "cleanup")
	defer done()

	if _, err := p.cfg.DefaultMode(); err != nil {
		return err
	}

	stages := []struct {
		name string
		run  stageFunc
	}{
		{StageEmpty, p.deleteEmpty},
		{StageTemporary, p.deleteTemporary},
		{StageDuplicates, p.resolveDuplicates},
		{StageNameCollisions, p.resolveNameCollisions},
		{StagePermissions, p.normalizePermissions},
		{StageNames, p.sanitizeNames},
		{StageMerge, p.merge},
	}

	p.stage = StageScan
	snap, err := p.scanner.SnapshotAll(p.cfg.MainDir, p.cfg.AuxDirs)
	if err != nil {
		return err
	}

	for i, st := range stages {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "cleanup cancelled").WithDetail("stage", st.name)
		}

		p.stage = st.name
		p.recorder.StageStarted(st.name)
		before := p.mutations

		finish := logging.LogOperationStart(p.logger, st.name)
		err := st.run(snap)
		finish()
		if err != nil {
			return stageError(st.name, err)
		}

		changed := p.mutations - before
		p.logger.Info().
			Str("stage", st.name).
			Int("mutations", changed).
			Msg("Stage complete")

		if changed > 0 && i < len(stages)-1 {
			p.stage = StageScan
			if snap, err = p.scanner.SnapshotAll(p.cfg.MainDir, p.cfg.AuxDirs); err != nil {
				return stageError(stages[i+1].name, err)
			}
		}
	}
	return nil
}

// Mutations returns the number of filesystem changes made so far
func (p *Pipeline) Mutations() int {
	return p.mutations
}

func (p *Pipeline) inspected(r types.FileRecord) {
	p.recorder.Record(report.Event{Stage: p.stage, Action: report.ActionInspected, Path: r.AbsPath()})
}

func (p *Pipeline) record(action report.Action, path, target, detail string) {
	if p.dryRun && action.IsMutation() {
		if detail != "" {
			detail += ", "
		}
		detail += "dry run"
	}
	p.recorder.Record(report.Event{Stage: p.stage, Action: action, Path: path, Target: target, Detail: detail})
}

func (p *Pipeline) skip(path, target, reason string) {
	p.logger.Info().Str("path", path).Str("reason", reason).Msg("Skipped")
	p.record(report.ActionSkipped, path, target, reason)
}

// apply runs one mutation unless this is a dry run. It returns false with a
// nil error when the destination was taken and the file was skipped.
func (p *Pipeline) apply(action report.Action, path, target, detail string, mutate func() error) (bool, error) {
	if !p.dryRun {
		if err := mutate(); err != nil {
			if stderrors.Is(err, filesystem.ErrDestinationExists) {
				p.skip(path, target, "destination exists")
				return false, nil
			}
			return false, err
		}
		p.mutations++
	}
	p.record(action, path, target, detail)
	return true, nil
}

func stageError(stage string, err error) error {
	var ce *errors.CleanError
	if stderrors.As(err, &ce) {
		return ce.WithDetail("stage", stage)
	}
	return errors.Wrap(err, errors.ErrInternal, "stage failed").WithDetail("stage", stage)
}
