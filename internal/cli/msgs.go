package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootUse           = "cleanfiles [flags] MAIN_DIR AUX_DIR [AUX_DIR...]"
	MsgRootShort         = "Clean up a directory and merge others into it"
	MsgVersionShort      = "Print version information"
	MsgVersionLong       = "Print detailed version information including commit hash and build date"
	MsgCompletionShort   = "Generate shell completion script"
	MsgManShort          = "Generate man page"
	MsgManLong           = "Generate the cleanfiles man page in roff format"
	MsgGenConfigShort    = "Print the effective configuration"
	MsgGenConfigExample  = "  cleanfiles gen-config > my-config.toml\n  cleanfiles gen-config --write"
	MsgGenConfigWritten  = "Configuration written to %s\n"
	MsgDryRunNotice      = "DRY RUN - no files were changed"
	MsgMissingArgs       = "requires a main directory and at least one auxiliary directory"
	MsgVersionFormat     = "cleanfiles version %s\n"
	MsgCommitFormat      = "Commit: %s\n"
	MsgBuiltFormat       = "Built:  %s\n"
	MsgErrorPrefix       = "Error: "
	MsgManualName        = "cleanfiles manual"
	MsgManualTitle       = "CLEANFILES"
	MsgCompletionUnknown = "unknown shell %q"

	// Error messages
	MsgErrNoTerminal     = "some actions ask for confirmation but standard input is not a terminal; use --yes, --action or --dry-run"
	MsgErrActionFormat   = "invalid --action %q: expected KEY=VALUE"
	MsgErrActionKey      = "invalid --action key %q: expected one of %s"
	MsgErrActionValue    = "invalid --action value for %s: %v"
	MsgErrConfigExists   = "%s already exists; remove it first or print to stdout"
	MsgErrGenerateConfig = "failed to generate configuration"
	MsgErrWriteConfig    = "failed to write configuration"
	MsgErrRenderSummary  = "failed to render summary"

	// Flag descriptions
	MsgFlagVerbose       = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig        = "Configuration file (default is $XDG_CONFIG_HOME/cleanfiles/config.toml)"
	MsgFlagYes           = "Apply every change without asking; merged files are moved unless --action copy=True"
	MsgFlagAction        = "Override one action policy, e.g. --action copy=True (repeatable)"
	MsgFlagDryRun        = "Report what would change without changing anything"
	MsgFlagFormat        = "Summary format: text, json or yaml"
	MsgFlagNoColor       = "Disable colored output"
	MsgFlagShowInspected = "List every inspected file"
	MsgFlagWrite         = "Write to the default configuration file instead of stdout"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimRight(msgCompletionLongRaw, "\n")
)
