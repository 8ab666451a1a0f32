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

package capture

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/bpf"
)

func writePcap(t *testing.T, frames ...[]byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := pcapgo.NewWriter(buf)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeEthernet))
	for i, frame := range frames {
		ci := gopacket.CaptureInfo{
			Timestamp:     time.Unix(1700000000, int64(i)*int64(time.Millisecond)),
			CaptureLength: len(frame),
			Length:        len(frame),
		}
		require.NoError(t, w.WritePacket(ci, frame))
	}
	return buf.Bytes()
}

func writePcapng(t *testing.T, frames ...[]byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w, err := pcapgo.NewNgWriter(buf, layers.LinkTypeEthernet)
	require.NoError(t, err)
	for _, frame := range frames {
		ci := gopacket.CaptureInfo{
			Timestamp:     time.Unix(1700000000, 0),
			CaptureLength: len(frame),
			Length:        len(frame),
		}
		require.NoError(t, w.WritePacket(ci, frame))
	}
	require.NoError(t, w.Flush())
	return buf.Bytes()
}

func readAll(t *testing.T, source Source) [][]byte {
	t.Helper()
	var frames [][]byte
	for {
		data, _, err := source.ReadPacketData()
		if err == io.EOF {
			return frames
		}
		require.NoError(t, err)
		frames = append(frames, data)
	}
}

func TestNewReaderSourcePcap(t *testing.T) {
	frames := [][]byte{{0x01, 0x02, 0x03}, {0x04, 0x05}}
	source, err := NewReaderSource(bytes.NewReader(writePcap(t, frames...)))
	require.NoError(t, err)
	defer source.Close()

	assert.Equal(t, layers.LinkTypeEthernet, source.LinkType())
	assert.Equal(t, frames, readAll(t, source))
}

func TestNewReaderSourcePcapng(t *testing.T) {
	frames := [][]byte{{0xaa, 0xbb}}
	source, err := NewReaderSource(bytes.NewReader(writePcapng(t, frames...)))
	require.NoError(t, err)
	defer source.Close()

	assert.Equal(t, layers.LinkTypeEthernet, source.LinkType())
	assert.Equal(t, frames, readAll(t, source))
}

func TestNewReaderSourceGarbage(t *testing.T) {
	_, err := NewReaderSource(bytes.NewReader([]byte("definitely not a capture")))
	assert.Error(t, err)

	_, err = NewReaderSource(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mrp.pcap")
	require.NoError(t, os.WriteFile(path, writePcap(t, []byte{0x01}), 0644))

	source, err := OpenFile(path)
	require.NoError(t, err)
	assert.Len(t, readAll(t, source), 1)
	assert.NoError(t, source.Close())

	_, err = OpenFile(filepath.Join(t.TempDir(), "absent.pcap"))
	assert.Error(t, err)
}

func frameWithType(etherType uint16, inner uint16) []byte {
	frame := make([]byte, 60)
	frame[12] = byte(etherType >> 8)
	frame[13] = byte(etherType)
	frame[16] = byte(inner >> 8)
	frame[17] = byte(inner)
	return frame
}

func TestMRPFilter(t *testing.T) {
	raw, err := mrpFilter()
	require.NoError(t, err)
	instructions, ok := bpf.Disassemble(raw)
	require.True(t, ok)
	vm, err := bpf.NewVM(instructions)
	require.NoError(t, err)

	tests := []struct {
		name   string
		frame  []byte
		accept bool
	}{
		{"untagged MRP", frameWithType(etherTypeMRP, 0), true},
		{"tagged MRP", frameWithType(etherTypeDot1Q, etherTypeMRP), true},
		{"IPv4", frameWithType(0x0800, 0), false},
		{"tagged IPv4", frameWithType(etherTypeDot1Q, 0x0800), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := vm.Run(tt.frame)
			require.NoError(t, err)
			assert.Equal(t, tt.accept, n > 0)
		})
	}
}
