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
	"fmt"
	"net"
	"os"
	"time"

	"github.com/google/gopacket/afpacket"
	"github.com/google/gopacket/layers"

	"jinr.ru/greenlab/go-mrp/pkg/log"
)

const numBlocks = 8

type liveSource struct {
	*afpacket.TPacket
	iface string
}

func (s *liveSource) LinkType() layers.LinkType {
	return layers.LinkTypeEthernet
}

// Close releases the socket. Poll timeouts surface from ReadPacketData as
// afpacket.ErrTimeout, gopacket.PacketSource retries on them.
func (s *liveSource) Close() error {
	log.Debug("Closing live capture: iface: %s", s.iface)
	s.TPacket.Close()
	return nil
}

func frameSize(snapLen int) int {
	pageSize := os.Getpagesize()
	if snapLen < pageSize {
		return pageSize / (pageSize / snapLen)
	}
	return (snapLen/pageSize + 1) * pageSize
}

// OpenLive opens an AF_PACKET socket on iface which only sees MRP frames
func OpenLive(iface string, snapLen int, pollTimeout time.Duration) (Source, error) {
	log.Info("Opening live capture: iface: %s snaplen: %d", iface, snapLen)
	if _, err := net.InterfaceByName(iface); err != nil {
		return nil, fmt.Errorf("interface %s: %w", iface, err)
	}

	size := frameSize(snapLen)
	tpacket, err := afpacket.NewTPacket(
		afpacket.OptInterface(iface),
		afpacket.OptFrameSize(size),
		afpacket.OptBlockSize(size*128),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.OptAddVLANHeader(true),
		afpacket.OptPollTimeout(pollTimeout),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return nil, fmt.Errorf("create TPacket on %s: %w", iface, err)
	}

	filter, err := mrpFilter()
	if err != nil {
		tpacket.Close()
		return nil, err
	}
	if err := tpacket.SetBPF(filter); err != nil {
		tpacket.Close()
		return nil, fmt.Errorf("set MRP filter on %s: %w", iface, err)
	}
	return &liveSource{TPacket: tpacket, iface: iface}, nil
}
