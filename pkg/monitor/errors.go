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
	"fmt"
)

// ErrNotFound returned when a domain or a source is absent from the monitor database
type ErrNotFound struct {
	What string
	Key  string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Key)
}
