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
	"encoding/json"
	"time"

	"jinr.ru/greenlab/go-mrp/pkg/mrp"
)

// FrameSummary is the latest MRP_Test/MRP_Common pair seen from one source in one domain
type FrameSummary struct {
	DomainID      string `json:"domainID"`
	SourceAddress string `json:"sourceAddress"`
	Version       uint16 `json:"version"`
	Priority      uint16 `json:"priority"`
	PortRole      uint16 `json:"portRole"`
	RingState     uint16 `json:"ringState"`
	Transition    uint16 `json:"transition"`
	Timestamp     uint32 `json:"timestamp"`
	SequenceID    uint16 `json:"sequenceID"`
	Frames        uint64 `json:"frames"`
	LastSeen      uint64 `json:"lastSeen"` // milliseconds since epoch
}

// NewFrameSummary returns false when the document lacks a Test or a Common TLV
func NewFrameSummary(doc *mrp.Document, seenAt time.Time) (*FrameSummary, bool) {
	test, ok := doc.Test()
	if !ok {
		return nil, false
	}
	common, ok := doc.Common()
	if !ok {
		return nil, false
	}
	return &FrameSummary{
		DomainID:      common.DomainID.String(),
		SourceAddress: test.SourceAddress.String(),
		Version:       doc.Version,
		Priority:      test.Priority,
		PortRole:      test.PortRole,
		RingState:     test.RingState,
		Transition:    test.Transition,
		Timestamp:     test.Timestamp,
		SequenceID:    common.SequenceID,
		LastSeen:      Millis(seenAt),
	}, true
}

type DomainView struct {
	DomainID string          `json:"domainID"`
	Sources  []*FrameSummary `json:"sources"`
}

type Stats struct {
	Decoded uint64 `json:"decoded"`
	Failed  uint64 `json:"failed"`
	Ignored uint64 `json:"ignored"`
}

type DecodeRequest struct {
	Payload string `json:"payload"` // hexadecimal
}

type DecodeResponse struct {
	Document json.RawMessage `json:"document"`
	Text     string          `json:"text"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func Millis(t time.Time) uint64 {
	return uint64(t.UnixNano()) / uint64(time.Millisecond)
}
