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

package read

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-mrp/pkg/capture"
	"jinr.ru/greenlab/go-mrp/pkg/command"
)

const (
	PcapOptionName   = "pcap"
	OutputOptionName = "output"
)

func NewCommand() *cobra.Command {
	var pcap, output string
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Print MRP frames from a pcap or pcapng file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pcap == "" {
				return errors.New("--pcap is required")
			}
			source, err := capture.OpenFile(pcap)
			if err != nil {
				return err
			}
			defer source.Close()
			result, err := command.ReadCapture(source, cmd.OutOrStdout(), cmd.ErrOrStderr(), output)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&pcap, PcapOptionName, "", "Capture file to read")
	cmd.Flags().StringVarP(&output, OutputOptionName, "o", command.OutputText,
		fmt.Sprintf("Output format. One of: %s", strings.Join(command.OutputFormats, ", ")))
	return cmd
}
