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

package cmd

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand(io.Discard)
	for _, path := range [][]string{
		{"decode"},
		{"read"},
		{"monitor", "start"},
		{"monitor", "domains"},
		{"monitor", "domain"},
		{"monitor", "stats"},
		{"config", "init"},
		{"completion"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestRootDecode(t *testing.T) {
	out := &bytes.Buffer{}
	root := NewRootCommand(out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--log-level", "error", "decode", "00010000"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "MRP Version: 0x0001\n  TLV Type: 0x00, Length: 0\n  Data:\n  End of MRP Data\n\n", out.String())
}

func TestRootRejectsLogLevel(t *testing.T) {
	root := NewRootCommand(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--log-level", "verbose", "decode", "00010000"})
	assert.Error(t, root.Execute())
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out := &bytes.Buffer{}
		root := NewRootCommand(out)
		root.SetArgs([]string{"completion", shell})
		require.NoError(t, root.Execute(), shell)
		assert.Contains(t, out.String(), "go-mrp", shell)
	}
}
