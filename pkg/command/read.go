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
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-mrp/pkg/capture"
	"jinr.ru/greenlab/go-mrp/pkg/layers"
	"jinr.ru/greenlab/go-mrp/pkg/log"
	"jinr.ru/greenlab/go-mrp/pkg/mrp"
)

type ReadResult struct {
	Packets int
	Frames  int
	Failed  int
}

func (r *ReadResult) String() string {
	return fmt.Sprintf("packets: %d MRP frames: %d failed: %d", r.Packets, r.Frames, r.Failed)
}

func linkEndpoints(packet gopacket.Packet) (string, string) {
	link := packet.LinkLayer()
	if link == nil {
		return "?", "?"
	}
	flow := link.LinkFlow()
	return flow.Src().String(), flow.Dst().String()
}

// ReadCapture prints every MRP frame of the source to out. Frames which
// fail to decode are reported to errOut and reading goes on.
func ReadCapture(source capture.Source, out, errOut io.Writer, format string) (*ReadResult, error) {
	if err := ValidateOutput(format); err != nil {
		return nil, err
	}
	result := &ReadResult{}
	packetSource := gopacket.NewPacketSource(source, source.LinkType())
	for packet := range packetSource.Packets() {
		result.Packets++
		src, dst := linkEndpoints(packet)

		if errLayer := packet.ErrorLayer(); errLayer != nil {
			var formatErr mrp.FormatError
			if errors.As(errLayer.Error(), &formatErr) {
				result.Failed++
				fmt.Fprintf(errOut, "Packet %d: %s -> %s: %s\n", result.Packets, src, dst, formatErr)
			} else {
				log.Debug("Skip undecodable packet %d: %s", result.Packets, errLayer.Error())
			}
			continue
		}

		layer := packet.Layer(layers.MRPLayerType)
		if layer == nil {
			continue
		}
		mrpLayer, ok := layer.(*layers.MRPLayer)
		if !ok {
			log.Error("Error while asserting to MRPLayer")
			continue
		}
		result.Frames++
		fmt.Fprintf(out, "Packet %d: %s %s -> %s\n", result.Packets,
			packet.Metadata().Timestamp.UTC().Format(time.RFC3339Nano), src, dst)
		if err := WriteDocument(out, mrpLayer.Document, format); err != nil {
			return result, err
		}
	}
	log.Info("Capture read: %s", result)
	return result, nil
}
