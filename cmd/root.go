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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-mrp/cmd/completion"
	"jinr.ru/greenlab/go-mrp/cmd/config"
	"jinr.ru/greenlab/go-mrp/cmd/decode"
	"jinr.ru/greenlab/go-mrp/cmd/monitor"
	"jinr.ru/greenlab/go-mrp/cmd/read"
	pkgconfig "jinr.ru/greenlab/go-mrp/pkg/config"
	"jinr.ru/greenlab/go-mrp/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cfg := pkgconfig.NewDefaultConfig()
	if err := cfg.Load(); err != nil {
		log.Warning("Using default config: %s", err)
	}
	cmd := &cobra.Command{
		Use:           "go-mrp",
		Short:         "Tool to decode and monitor MRP (IEC 62439-2) ring frames",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
				return err
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(config.NewCommand())
	cmd.AddCommand(decode.NewCommand(cfg))
	cmd.AddCommand(read.NewCommand())
	cmd.AddCommand(monitor.NewCommand(cfg))
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
