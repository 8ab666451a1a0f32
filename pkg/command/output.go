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

package command

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-mrp/pkg/monitor"
	"jinr.ru/greenlab/go-mrp/pkg/mrp"
)

const (
	OutputText = "text"
	OutputYAML = "yaml"
	OutputJSON = "json"
)

var OutputFormats = []string{OutputText, OutputYAML, OutputJSON}

type ErrUnknownOutput struct {
	Format string
}

func (e ErrUnknownOutput) Error() string {
	return fmt.Sprintf("Unknown output format: %s. Must be one of: %s", e.Format, strings.Join(OutputFormats, ", "))
}

func ValidateOutput(format string) error {
	for _, f := range OutputFormats {
		if f == format {
			return nil
		}
	}
	return ErrUnknownOutput{Format: format}
}

// WriteDocument prints a decoded document in the given format
func WriteDocument(w io.Writer, doc *mrp.Document, format string) error {
	switch format {
	case OutputText:
		_, err := fmt.Fprintln(w, mrp.Render(doc))
		return err
	case OutputYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case OutputJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return ErrUnknownOutput{Format: format}
}

// WriteDecodeResponse prints a document decoded by the monitor
func WriteDecodeResponse(w io.Writer, decoded *monitor.DecodeResponse, format string) error {
	switch format {
	case OutputText:
		_, err := fmt.Fprintln(w, decoded.Text)
		return err
	case OutputYAML:
		data, err := yaml.JSONToYAML(decoded.Document)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case OutputJSON:
		data, err := json.MarshalIndent(decoded.Document, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return ErrUnknownOutput{Format: format}
}
