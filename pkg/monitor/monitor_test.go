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

package monitor

import (
	"bytes"
	"context"
	"encoding/hex"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	gopacketlayers "github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-mrp/pkg/capture"
	"jinr.ru/greenlab/go-mrp/pkg/config"
	"jinr.ru/greenlab/go-mrp/pkg/layers"
	"jinr.ru/greenlab/go-mrp/pkg/mrp"
)

const (
	testDomain = "c3d687fe-789e-03a1-acdb-e5bfcbbc27b6"
	testSource = "00:0e:8c:e0:2f:22"
)

const testPayload = "0001" +
	"0212" + "a000" + "000e8ce02f22" + "0000" + "0000" + "0001" + "19fa3fd4" +
	"0112" + "057e" + "c3d687fe789e03a1acdbe5bfcbbc27b6" +
	"0000"

// second ring manager in the same domain
const otherPayload = "0001" +
	"0212" + "8000" + "000e8ce02f33" + "0001" + "0001" + "0002" + "00000010" +
	"0112" + "0001" + "c3d687fe789e03a1acdbe5bfcbbc27b6" +
	"0000"

// option TLV only
const ignoredPayload = "0001" + "7f06" + "080006" + "00" + "0000" + "0000"

// unknown record kind 0x03
const brokenPayload = "0001" + "0302" + "0000" + "0000"

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	data, err := hex.DecodeString(s)
	require.NoError(t, err)
	return data
}

func mustDecode(t *testing.T, s string) *mrp.Document {
	t.Helper()
	doc, err := mrp.Decode(mustHex(t, s))
	require.NoError(t, err)
	return doc
}

func ethernetFrame(t *testing.T, payload string) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, gopacket.SerializeLayers(buf, gopacket.SerializeOptions{},
		&gopacketlayers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x00, 0x0e, 0x8c, 0xe0, 0x2f, 0x22},
			DstMAC:       layers.MRPTestMulticast,
			EthernetType: layers.EthernetTypeMRP,
		},
		gopacket.Payload(mustHex(t, payload))))
	return buf.Bytes()
}

func arpFrame(t *testing.T) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	require.NoError(t, gopacket.SerializeLayers(buf, gopacket.SerializeOptions{},
		&gopacketlayers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x00, 0x0e, 0x8c, 0xe0, 0x2f, 0x22},
			DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			EthernetType: gopacketlayers.EthernetTypeARP,
		},
		&gopacketlayers.ARP{
			AddrType:          gopacketlayers.LinkTypeEthernet,
			Protocol:          gopacketlayers.EthernetTypeIPv4,
			HwAddressSize:     6,
			ProtAddressSize:   4,
			Operation:         gopacketlayers.ARPRequest,
			SourceHwAddress:   []byte{0x00, 0x0e, 0x8c, 0xe0, 0x2f, 0x22},
			SourceProtAddress: []byte{10, 0, 0, 1},
			DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
			DstProtAddress:    []byte{10, 0, 0, 2},
		}))
	return buf.Bytes()
}

var testTime = time.Unix(1700000000, 0)

func pcapSource(t *testing.T, frames ...[]byte) capture.Source {
	t.Helper()
	buf := &bytes.Buffer{}
	w := pcapgo.NewWriter(buf)
	require.NoError(t, w.WriteFileHeader(65536, gopacketlayers.LinkTypeEthernet))
	for i, frame := range frames {
		require.NoError(t, w.WritePacket(gopacket.CaptureInfo{
			Timestamp:     testTime.Add(time.Duration(i) * time.Second),
			CaptureLength: len(frame),
			Length:        len(frame),
		}, frame))
	}
	source, err := capture.NewReaderSource(buf)
	require.NoError(t, err)
	return source
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), config.DBFile)
	cfg.SetPath(filepath.Join(t.TempDir(), config.ConfigFile))
	return cfg
}

func newTestState(t *testing.T) *State {
	t.Helper()
	state, err := NewState(context.Background(), filepath.Join(t.TempDir(), config.DBFile))
	require.NoError(t, err)
	t.Cleanup(state.Close)
	return state
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}
