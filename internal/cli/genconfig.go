package cli

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/cleanfiles/pkg/config"
	"github.com/arthur-debert/cleanfiles/pkg/errors"
	"github.com/arthur-debert/cleanfiles/pkg/filesystem"
	"github.com/arthur-debert/cleanfiles/pkg/paths"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newGenConfigCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Example: MsgGenConfigExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(config.LoadOptions{ConfigFile: configFile})
			if err != nil {
				return err
			}

			content, err := config.Generate(cfg)
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, MsgErrGenerateConfig)
			}

			if !write {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}

			fsys := filesystem.NewOS()
			target := paths.DefaultConfigFile()
			if taken, err := filesystem.Exists(fsys, target); err != nil {
				return err
			} else if taken {
				return errors.Newf(errors.ErrInvalidInput, MsgErrConfigExists, target).WithDetail("path", target)
			}
			if err := fsys.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return errors.PathError(err, errors.ErrDirCreate, "create config directory", filepath.Dir(target))
			}
			if err := afero.WriteFile(fsys, target, content, 0644); err != nil {
				return errors.Wrap(err, errors.ErrConfigLoad, MsgErrWriteConfig).WithDetail("path", target)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgGenConfigWritten, target)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}
