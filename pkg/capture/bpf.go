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
	"golang.org/x/net/bpf"
)

const (
	etherTypeOffset   = 12
	vlanTypeOffset    = 16
	etherTypeDot1Q    = 0x8100
	etherTypeMRP      = 0x88e3
	acceptPacketBytes = 65535
)

// mrpFilter accepts untagged and single tagged frames with EtherType 0x88e3
func mrpFilter() ([]bpf.RawInstruction, error) {
	instructions := []bpf.Instruction{
		bpf.LoadAbsolute{Off: etherTypeOffset, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: etherTypeMRP, SkipTrue: 3},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: etherTypeDot1Q, SkipFalse: 3},
		bpf.LoadAbsolute{Off: vlanTypeOffset, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: etherTypeMRP, SkipFalse: 1},
		bpf.RetConstant{Val: acceptPacketBytes},
		bpf.RetConstant{Val: 0},
	}
	return bpf.Assemble(instructions)
}
