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
	"context"
	"errors"

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-mrp/pkg/capture"
	"jinr.ru/greenlab/go-mrp/pkg/config"
	"jinr.ru/greenlab/go-mrp/pkg/layers"
	"jinr.ru/greenlab/go-mrp/pkg/log"
	"jinr.ru/greenlab/go-mrp/pkg/mrp"
)

// Server decodes MRP frames from a capture source and keeps
// the latest frame of every ring participant in the monitor database
type Server struct {
	context.Context
	*config.Config
	state *State
	api   *ApiServer
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	log.Info("Initializing monitor server: db: %s api: %s", cfg.DBPath, cfg.ApiAddress())

	state, err := NewState(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Context: ctx,
		Config:  cfg,
		state:   state,
	}

	apiServer, err := NewApiServer(ctx, cfg, state)
	if err != nil {
		state.Close()
		return nil, err
	}
	s.api = apiServer

	return s, nil
}

func (s *Server) State() *State {
	return s.state
}

func (s *Server) Close() {
	s.state.Close()
}

// HandlePacket updates the monitor database with a single captured frame.
// Frames which are not MRP are skipped.
func (s *Server) HandlePacket(packet gopacket.Packet) error {
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		var formatErr mrp.FormatError
		if !errors.As(errLayer.Error(), &formatErr) {
			log.Debug("Skip undecodable frame: %s", errLayer.Error())
			return nil
		}
		log.Warning("Drop malformed MRP frame: %s", formatErr)
		return s.state.CountFailure()
	}

	layer := packet.Layer(layers.MRPLayerType)
	if layer == nil {
		return nil
	}
	mrpLayer, ok := layer.(*layers.MRPLayer)
	if !ok {
		log.Error("Error while asserting to MRPLayer")
		return nil
	}

	summary, ok := NewFrameSummary(mrpLayer.Document, packet.Metadata().Timestamp)
	if !ok {
		log.Debug("Ignore MRP frame without Test/Common TLV:\n%s", mrp.Render(mrpLayer.Document))
		return s.state.CountIgnored()
	}
	return s.state.Observe(summary)
}

// Consume reads packets until the source is exhausted or the context is done
func (s *Server) Consume(source capture.Source) error {
	packetSource := gopacket.NewPacketSource(source, source.LinkType())
	packets := packetSource.Packets()
	for {
		select {
		case <-s.Context.Done():
			return s.Context.Err()
		case packet, ok := <-packets:
			if !ok {
				log.Info("Capture source exhausted")
				return nil
			}
			if err := s.HandlePacket(packet); err != nil {
				log.Error("Error while handling packet: %s", err)
			}
		}
	}
}

// Run serves the API while consuming the source. When the source
// is exhausted the API keeps serving until the context is done.
func (s *Server) Run(source capture.Source) error {
	defer s.Close()

	errChan := make(chan error, 2)
	go func() {
		errChan <- s.api.Run()
	}()
	go func() {
		if err := s.Consume(source); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-s.Context.Done():
		return nil
	case err := <-errChan:
		return err
	}
}
