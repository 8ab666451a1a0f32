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
	"encoding/json"

	"github.com/google/uuid"
)

const (
	VersionLen   = 2
	TLVHeaderLen = 2
	// Minimal body lengths of the fixed TLV layouts
	TestLen   = 18
	CommonLen = 18
	OptionLen = 6
)

type RecordKind uint8

const (
	RecordKindEnd    RecordKind = 0x00
	RecordKindCommon RecordKind = 0x01
	RecordKindTest   RecordKind = 0x02
	RecordKindOption RecordKind = 0x7f
)

func (k RecordKind) String() string {
	switch k {
	case RecordKindEnd:
		return "End"
	case RecordKindCommon:
		return "Common"
	case RecordKindTest:
		return "Test"
	case RecordKindOption:
		return "Option"
	}
	return "Unknown"
}

// RecordBody is one of Test, Common, Option or End
type RecordBody interface {
	Kind() RecordKind
	isRecordBody()
}

// Test is the body of MRP_Test TLV
type Test struct {
	Priority      uint16          `json:"priority"`
	SourceAddress HardwareAddress `json:"sourceAddress"`
	PortRole      uint16          `json:"portRole"`
	RingState     uint16          `json:"ringState"`
	Transition    uint16          `json:"transition"`
	Timestamp     uint32          `json:"timestamp"`
}

// Common is the body of MRP_Common TLV
type Common struct {
	SequenceID uint16    `json:"sequenceID"`
	DomainID   uuid.UUID `json:"domainID"`
}

// Option is the body of MRP_Option TLV
type Option struct {
	ManufacturerOUI     OUI    `json:"manufacturerOUI"`
	ED1Type             uint8  `json:"ed1Type"`
	ED1ManufacturerData uint16 `json:"ed1ManufacturerData"`
}

// End terminates the TLV sequence and has no fields
type End struct{}

func (Test) Kind() RecordKind   { return RecordKindTest }
func (Common) Kind() RecordKind { return RecordKindCommon }
func (Option) Kind() RecordKind { return RecordKindOption }
func (End) Kind() RecordKind    { return RecordKindEnd }

func (Test) isRecordBody()   {}
func (Common) isRecordBody() {}
func (Option) isRecordBody() {}
func (End) isRecordBody()    {}

// Record is a single TLV. Length is the length declared on the wire, 0 for End.
type Record struct {
	Kind   RecordKind
	Length uint8
	Body   RecordBody
}

func (r Record) MarshalJSON() ([]byte, error) {
	body := r.Body
	if r.Kind == RecordKindEnd {
		body = nil
	}
	return json.Marshal(struct {
		Type   string     `json:"type"`
		Kind   uint8      `json:"kind"`
		Length uint8      `json:"length"`
		Body   RecordBody `json:"body,omitempty"`
	}{
		Type:   r.Kind.String(),
		Kind:   uint8(r.Kind),
		Length: r.Length,
		Body:   body,
	})
}

// Document is a decoded MRP payload. Records keep the wire order.
type Document struct {
	Version uint16   `json:"version"`
	Records []Record `json:"records"`
}

// Test returns the first MRP_Test body of the document
func (d *Document) Test() (Test, bool) {
	for _, r := range d.Records {
		if body, ok := r.Body.(Test); ok {
			return body, true
		}
	}
	return Test{}, false
}

// Common returns the first MRP_Common body of the document
func (d *Document) Common() (Common, bool) {
	for _, r := range d.Records {
		if body, ok := r.Body.(Common); ok {
			return body, true
		}
	}
	return Common{}, false
}

func (d *Document) String() string {
	return Render(d)
}

func decodeTest(body []byte) Test {
	return Test{
		Priority:      ReadUint16(body[0:2]),
		SourceAddress: ReadHardwareAddress(body[2:8]),
		PortRole:      ReadUint16(body[8:10]),
		RingState:     ReadUint16(body[10:12]),
		Transition:    ReadUint16(body[12:14]),
		Timestamp:     ReadUint32(body[14:18]),
	}
}

func decodeCommon(body []byte) (Common, error) {
	domainID, err := ReadUUID(body[2:18])
	if err != nil {
		return Common{}, err
	}
	return Common{
		SequenceID: ReadUint16(body[0:2]),
		DomainID:   domainID,
	}, nil
}

func decodeOption(body []byte) Option {
	return Option{
		ManufacturerOUI:     ReadOUI(body[0:3]),
		ED1Type:             body[3],
		ED1ManufacturerData: ReadUint16(body[4:6]),
	}
}

var minBodyLen = map[RecordKind]int{
	RecordKindTest:   TestLen,
	RecordKindCommon: CommonLen,
	RecordKindOption: OptionLen,
	RecordKindEnd:    0,
}

// decodeRecord decodes the TLV whose header starts at offset. body is
// exactly the declared number of bytes following the header.
func decodeRecord(kind RecordKind, body []byte, offset int) (Record, error) {
	need, ok := minBodyLen[kind]
	if !ok {
		return Record{}, &ErrUnknownRecordKind{Kind: kind, Offset: offset}
	}
	if len(body) < need {
		return Record{}, &ErrMalformedRecord{Kind: kind, Offset: offset, Length: len(body), Need: need}
	}

	record := Record{Kind: kind, Length: uint8(len(body))}
	switch kind {
	case RecordKindTest:
		record.Body = decodeTest(body)
	case RecordKindCommon:
		common, err := decodeCommon(body)
		if err != nil {
			return Record{}, err
		}
		record.Body = common
	case RecordKindOption:
		record.Body = decodeOption(body)
	case RecordKindEnd:
		// End carries no payload whatever the wire says
		record.Length = 0
		record.Body = End{}
	}
	return record, nil
}

// Decode parses an MRP payload: a 2 byte version followed by TLVs until the
// buffer is exhausted. Records after End are decoded as well. Any failure
// aborts the whole decode and no document is returned.
func Decode(payload []byte) (*Document, error) {
	if len(payload) < VersionLen {
		return nil, &ErrTooShort{What: "version", Offset: 0, Need: VersionLen, Have: len(payload)}
	}

	doc := &Document{Version: ReadUint16(payload[0:VersionLen]), Records: []Record{}}
	offset := VersionLen
	for offset < len(payload) {
		remaining := len(payload) - offset
		if remaining < TLVHeaderLen {
			return nil, &ErrTooShort{What: "TLV header", Offset: offset, Need: TLVHeaderLen, Have: remaining}
		}

		kind := RecordKind(payload[offset])
		length := int(payload[offset+1])
		if remaining-TLVHeaderLen < length {
			return nil, &ErrTooShort{What: "TLV body", Offset: offset, Need: length, Have: remaining - TLVHeaderLen}
		}

		bodyStart := offset + TLVHeaderLen
		record, err := decodeRecord(kind, payload[bodyStart:bodyStart+length], offset)
		if err != nil {
			return nil, err
		}
		doc.Records = append(doc.Records, record)
		offset = bodyStart + length
	}
	return doc, nil
}
