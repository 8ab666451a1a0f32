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

package layers

import (
	"errors"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"jinr.ru/greenlab/go-mrp/pkg/log"
	"jinr.ru/greenlab/go-mrp/pkg/mrp"
)

const (
	// MRPLayerNum identifies the layer
	MRPLayerNum = 1997
	// EthernetTypeMRP is the EtherType of IEC 62439-2 frames
	EthernetTypeMRP layers.EthernetType = 0x88e3
)

var (
	// MRPTestMulticast is the destination of MRP_Test frames
	MRPTestMulticast = net.HardwareAddr{0x01, 0x15, 0x4e, 0x00, 0x00, 0x01}
	// MRPControlMulticast is the destination of topology change and link frames
	MRPControlMulticast = net.HardwareAddr{0x01, 0x15, 0x4e, 0x00, 0x00, 0x02}
)

var MRPLayerType = gopacket.RegisterLayerType(MRPLayerNum,
	gopacket.LayerTypeMetadata{Name: "MRPLayerType", Decoder: gopacket.DecodeFunc(decodeMRPLayer)})

func init() {
	// Ethernet and Dot1Q both dispatch their payload through EthernetTypeMetadata
	layers.EthernetTypeMetadata[EthernetTypeMRP] = layers.EnumMetadata{
		DecodeWith: gopacket.DecodeFunc(decodeMRPLayer),
		Name:       "MRP",
		LayerType:  MRPLayerType,
	}
}

// MRPLayer holds a decoded MRP PDU. Padding keeps the zero bytes the
// Ethernet minimum frame size appended after the End TLV.
type MRPLayer struct {
	layers.BaseLayer
	*mrp.Document
	Padding []byte
}

// LayerType returns the type of the MRP layer in the layer catalog
func (m *MRPLayer) LayerType() gopacket.LayerType {
	return MRPLayerType
}

func (m *MRPLayer) CanDecode() gopacket.LayerClass {
	return MRPLayerType
}

// NextLayerType returns LayerTypeZero, MRP is always the last layer
func (m *MRPLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypeZero
}

// DecodeFromBytes attempts to decode the byte slice as an MRP PDU
func (m *MRPLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	pdu, padding := splitPadding(data)
	doc, err := mrp.Decode(pdu)
	if err != nil {
		var tooShort *mrp.ErrTooShort
		if errors.As(err, &tooShort) {
			df.SetTruncated()
		}
		return err
	}
	m.BaseLayer = layers.BaseLayer{Contents: pdu}
	m.Document = doc
	m.Padding = padding
	return nil
}

// splitPadding cuts the frame after the first End TLV when only zero bytes
// follow it. Anything else is left to the decoder, records after End included.
func splitPadding(data []byte) ([]byte, []byte) {
	offset := mrp.VersionLen
	for offset+mrp.TLVHeaderLen <= len(data) {
		kind := mrp.RecordKind(data[offset])
		end := offset + mrp.TLVHeaderLen + int(data[offset+1])
		if end > len(data) {
			break
		}
		if kind == mrp.RecordKindEnd {
			if allZero(data[end:]) {
				return data[:end], data[end:]
			}
			break
		}
		offset = end
	}
	return data, nil
}

func allZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

func decodeMRPLayer(data []byte, p gopacket.PacketBuilder) error {
	m := &MRPLayer{}
	err := m.DecodeFromBytes(data, p)
	if err != nil {
		log.Debug("Error while decoding MRP layer: %s", err)
		return err
	}
	p.AddLayer(m)
	return nil
}
