/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	completionExample = `
Save bash completion to a file
# go-mrp completion > $HOME/.go-mrp_completions

Apply completions to the current bash instance
# source <(go-mrp completion)

Load zsh completion
# go-mrp completion zsh > "${fpath[1]}/_go-mrp"
`
)

const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// NewCommand creates a cobra command object for generating shell completion scripts
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate completion script",
		Example:   completionExample,
		ValidArgs: []string{ShellBash, ShellZsh, ShellFish, ShellPowerShell},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := ShellBash
			if len(args) > 0 {
				shell = args[0]
			}
			out := cmd.OutOrStdout()
			switch shell {
			case ShellZsh:
				return cmd.Root().GenZshCompletion(out)
			case ShellFish:
				return cmd.Root().GenFishCompletion(out, true)
			case ShellPowerShell:
				return cmd.Root().GenPowerShellCompletion(out)
			case ShellBash:
				return cmd.Root().GenBashCompletion(out)
			}
			return fmt.Errorf("unsupported shell: %s", shell)
		},
	}
	return cmd
}
