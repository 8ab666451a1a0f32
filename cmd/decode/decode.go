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

package decode

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-mrp/pkg/command"
	"jinr.ru/greenlab/go-mrp/pkg/config"
	"jinr.ru/greenlab/go-mrp/pkg/log"
	"jinr.ru/greenlab/go-mrp/pkg/mrp"
)

const (
	FileOptionName   = "file"
	OutputOptionName = "output"
	RemoteOptionName = "remote"
)

const decodeExample = `
Decode a payload given as hex
# go-mrp decode 0001 0212a000000e8ce02f22000000000001 19fa3fd4 0000

Decode a raw payload dumped to a file
# go-mrp decode --file payload.bin --output yaml

Decode using a running monitor
# echo 00010000 | go-mrp decode --remote
`

var ErrNoPayload = errors.New("No payload given")

// ParseHex joins the arguments and decodes them as hex.
// Whitespace, colons and an optional 0x prefix are ignored.
func ParseHex(args ...string) ([]byte, error) {
	var b strings.Builder
	for _, arg := range args {
		for _, field := range strings.Fields(arg) {
			field = strings.TrimPrefix(strings.ToLower(field), "0x")
			b.WriteString(strings.ReplaceAll(field, ":", ""))
		}
	}
	if b.Len() == 0 {
		return nil, ErrNoPayload
	}
	return hex.DecodeString(b.String())
}

func readPayload(cmd *cobra.Command, file string, args []string) ([]byte, error) {
	if file != "" {
		log.Debug("Reading raw payload from %s", file)
		return os.ReadFile(file)
	}
	if len(args) > 0 {
		return ParseHex(args...)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return ParseHex(string(data))
}

func NewCommand(cfg *config.Config) *cobra.Command {
	var file, output string
	var remote bool
	cmd := &cobra.Command{
		Use:     "decode [HEX...]",
		Short:   "Decode an MRP payload",
		Long:    "Decode an MRP payload given as hex arguments, hex on stdin or a raw file",
		Example: decodeExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := command.ValidateOutput(output); err != nil {
				return err
			}
			payload, err := readPayload(cmd, file, args)
			if err != nil {
				return err
			}
			if remote {
				decoded, err := command.NewApiClient(cfg).Decode(payload)
				if err != nil {
					return err
				}
				return command.WriteDecodeResponse(cmd.OutOrStdout(), decoded, output)
			}
			doc, err := mrp.Decode(payload)
			if err != nil {
				return err
			}
			return command.WriteDocument(cmd.OutOrStdout(), doc, output)
		},
	}
	cmd.Flags().StringVar(&file, FileOptionName, "", "File with a raw MRP payload")
	cmd.Flags().StringVarP(&output, OutputOptionName, "o", command.OutputText,
		fmt.Sprintf("Output format. One of: %s", strings.Join(command.OutputFormats, ", ")))
	cmd.Flags().BoolVar(&remote, RemoteOptionName, false, "Decode using the monitor API")
	return cmd
}
