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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// pcapng files start with a section header block
var pcapngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

// ErrLiveUnsupported returned by OpenLive on platforms without AF_PACKET
var ErrLiveUnsupported = errors.New("live capture is only supported on linux")

// Source is a packet source the monitor and the read command consume.
// ReadPacketData returns io.EOF once the source is exhausted.
type Source interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
	Close() error
}

type packetReader interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
}

type readerSource struct {
	packetReader
	closer io.Closer
}

func (s *readerSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// NewReaderSource reads a pcap or pcapng stream
func NewReaderSource(r io.Reader) (Source, error) {
	buffered := bufio.NewReader(r)
	magic, err := buffered.Peek(len(pcapngMagic))
	if err != nil {
		return nil, fmt.Errorf("read capture header: %w", err)
	}

	if bytes.Equal(magic, pcapngMagic) {
		ngReader, err := pcapgo.NewNgReader(buffered, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, fmt.Errorf("open pcapng: %w", err)
		}
		return &readerSource{packetReader: ngReader}, nil
	}

	reader, err := pcapgo.NewReader(buffered)
	if err != nil {
		return nil, fmt.Errorf("open pcap: %w", err)
	}
	return &readerSource{packetReader: reader}, nil
}

// OpenFile opens a pcap or pcapng file
func OpenFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	source, err := NewReaderSource(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	source.(*readerSource).closer = f
	return source, nil
}
