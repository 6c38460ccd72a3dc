package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/cleanfiles/pkg/types"
	"github.com/spf13/cobra"
)

// GenCompletion writes the completion script for shell
func GenCompletion(root *cobra.Command, shell string, out io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	}
	return fmt.Errorf(MsgCompletionUnknown, shell)
}

// completeActions offers KEY= and then KEY=VALUE for --action
func completeActions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	key, _, hasValue := strings.Cut(toComplete, "=")
	if !hasValue {
		out := make([]string, 0, len(types.ActionKeys))
		for _, k := range types.ActionKeys {
			out = append(out, k+"=")
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}

	values := []string{types.PolicyTextAlways, types.PolicyTextNever, types.PolicyTextAsk}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, key+"="+v)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
