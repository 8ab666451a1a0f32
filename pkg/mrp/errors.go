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
	"fmt"
)

// FormatError is returned by Decode. The concrete type tells which
// structural check failed: *ErrTooShort, *ErrUnknownRecordKind,
// *ErrMalformedUUID or *ErrMalformedRecord.
type FormatError interface {
	error
	formatError()
}

// ErrTooShort returned when the buffer ends before a version, a TLV header
// or a declared TLV body is complete
type ErrTooShort struct {
	What   string
	Offset int
	Need   int
	Have   int
}

func (e *ErrTooShort) Error() string {
	return fmt.Sprintf("MRP payload too short for %s at offset %d: need %d bytes, have %d",
		e.What, e.Offset, e.Need, e.Have)
}

// ErrUnknownRecordKind returned for a TLV type outside End/Common/Test/Option
type ErrUnknownRecordKind struct {
	Kind   RecordKind
	Offset int
}

func (e *ErrUnknownRecordKind) Error() string {
	return fmt.Sprintf("Unknown MRP TLV type 0x%02x at offset %d", uint8(e.Kind), e.Offset)
}

// ErrMalformedUUID returned when the domain id can not be built from its bytes
type ErrMalformedUUID struct {
	Err error
}

func (e *ErrMalformedUUID) Error() string {
	return fmt.Sprintf("Malformed MRP domain UUID: %s", e.Err)
}

func (e *ErrMalformedUUID) Unwrap() error {
	return e.Err
}

// ErrMalformedRecord returned when a TLV declares fewer bytes than its type's fixed layout
type ErrMalformedRecord struct {
	Kind   RecordKind
	Offset int
	Length int
	Need   int
}

func (e *ErrMalformedRecord) Error() string {
	return fmt.Sprintf("Malformed MRP %s TLV at offset %d: length %d, layout needs %d",
		e.Kind, e.Offset, e.Length, e.Need)
}

func (*ErrTooShort) formatError()          {}
func (*ErrUnknownRecordKind) formatError() {}
func (*ErrMalformedUUID) formatError()     {}
func (*ErrMalformedRecord) formatError()   {}
