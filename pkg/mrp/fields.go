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
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

const (
	HardwareAddressLen = 6
	OUILen             = 3
	UUIDLen            = 16
)

// HardwareAddress is a 6 byte MAC address
type HardwareAddress [HardwareAddressLen]byte

func (a HardwareAddress) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

func (a HardwareAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// OUI is the 3 byte organizationally unique identifier of a manufacturer
type OUI [OUILen]byte

func (o OUI) String() string {
	return fmt.Sprintf("%02x:%02x:%02x", o[0], o[1], o[2])
}

func (o OUI) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// The readers below expect the caller to have checked the slice width.

func ReadUint16(data []byte) uint16 {
	return binary.BigEndian.Uint16(data[0:2])
}

func ReadUint32(data []byte) uint32 {
	return binary.BigEndian.Uint32(data[0:4])
}

func ReadHardwareAddress(data []byte) HardwareAddress {
	var addr HardwareAddress
	copy(addr[:], data[0:HardwareAddressLen])
	return addr
}

func ReadOUI(data []byte) OUI {
	var oui OUI
	copy(oui[:], data[0:OUILen])
	return oui
}

// ReadUUID interprets 16 bytes as a UUID in RFC 4122 byte order
func ReadUUID(data []byte) (uuid.UUID, error) {
	id, err := uuid.FromBytes(data)
	if err != nil {
		return uuid.Nil, &ErrMalformedUUID{Err: err}
	}
	return id, nil
}
