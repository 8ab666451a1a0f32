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

package mrp

import (
	"fmt"
	"strings"
)

// Render formats the document as indented text, one block per TLV
func Render(doc *Document) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "MRP Version: 0x%04x\n", doc.Version)
	for _, record := range doc.Records {
		renderRecord(b, record)
	}
	return b.String()
}

func renderRecord(b *strings.Builder, r Record) {
	fmt.Fprintf(b, "  TLV Type: 0x%02x, Length: %d\n  Data:\n", uint8(r.Kind), r.Length)
	switch body := r.Body.(type) {
	case Test:
		fmt.Fprintf(b, "    MRP Test Data:\n")
		fmt.Fprintf(b, "      Prio: 0x%04x\n", body.Priority)
		fmt.Fprintf(b, "      SA: %s\n", body.SourceAddress)
		fmt.Fprintf(b, "      Port Role: 0x%04x\n", body.PortRole)
		fmt.Fprintf(b, "      Ring State: 0x%04x\n", body.RingState)
		fmt.Fprintf(b, "      Transition: 0x%04x\n", body.Transition)
		fmt.Fprintf(b, "      Timestamp: 0x%08x\n", body.Timestamp)
	case Common:
		fmt.Fprintf(b, "    MRP Common Data:\n")
		fmt.Fprintf(b, "      Sequence ID: 0x%04x\n", body.SequenceID)
		fmt.Fprintf(b, "      Domain UUID: %s\n", body.DomainID)
	case Option:
		fmt.Fprintf(b, "    MRP Option Data:\n")
		fmt.Fprintf(b, "      Manufacturer OUI: %s\n", body.ManufacturerOUI)
		fmt.Fprintf(b, "      Ed1 Type: 0x%02x\n", body.ED1Type)
		fmt.Fprintf(b, "      Ed1 Manufacturer Data: 0x%04x\n", body.ED1ManufacturerData)
	case End:
		fmt.Fprintf(b, "  End of MRP Data\n")
	}
}
