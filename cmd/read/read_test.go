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
	"bytes"
	"encoding/hex"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	gopacketlayers "github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-mrp/pkg/layers"
)

const testPayload = "0001" +
	"0212" + "a000" + "000e8ce02f22" + "0000" + "0000" + "0001" + "19fa3fd4" +
	"0112" + "057e" + "c3d687fe789e03a1acdbe5bfcbbc27b6" +
	"0000"

func writeCapture(t *testing.T) string {
	t.Helper()
	payload, err := hex.DecodeString(testPayload)
	require.NoError(t, err)
	frame := gopacket.NewSerializeBuffer()
	require.NoError(t, gopacket.SerializeLayers(frame, gopacket.SerializeOptions{},
		&gopacketlayers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x00, 0x0e, 0x8c, 0xe0, 0x2f, 0x22},
			DstMAC:       layers.MRPTestMulticast,
			EthernetType: layers.EthernetTypeMRP,
		},
		gopacket.Payload(payload)))

	path := filepath.Join(t.TempDir(), "ring.pcap")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65536, gopacketlayers.LinkTypeEthernet))
	require.NoError(t, w.WritePacket(gopacket.CaptureInfo{
		Timestamp:     time.Unix(1700000000, 0),
		CaptureLength: len(frame.Bytes()),
		Length:        len(frame.Bytes()),
	}, frame.Bytes()))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCommand()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRead(t *testing.T) {
	out, errOut, err := run(t, "--pcap", writeCapture(t), "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "Packet 1: 2023-11-14T22:13:20Z 00:0e:8c:e0:2f:22 -> 01:15:4e:00:00:01")
	assert.Contains(t, out, `"domainID": "c3d687fe-789e-03a1-acdb-e5bfcbbc27b6"`)
	assert.Contains(t, errOut, "packets: 1 MRP frames: 1 failed: 0")
}

func TestReadErrors(t *testing.T) {
	_, _, err := run(t)
	assert.EqualError(t, err, "--pcap is required")

	_, _, err = run(t, "--pcap", filepath.Join(t.TempDir(), "missing.pcap"))
	assert.Error(t, err)

	_, _, err = run(t, "--pcap", writeCapture(t), "--output", "xml")
	assert.Error(t, err)
}
