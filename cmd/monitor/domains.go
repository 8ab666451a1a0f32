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
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-mrp/pkg/config"
	"jinr.ru/greenlab/go-mrp/pkg/monitor"
)

func writeDomains(out io.Writer, domains []*monitor.DomainView, now time.Time) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tSOURCE\tPRIORITY\tPORT ROLE\tRING STATE\tSEQUENCE\tFRAMES\tLAST SEEN")
	for _, domain := range domains {
		for _, s := range domain.Sources {
			var age time.Duration
			if nowMillis := monitor.Millis(now); nowMillis > s.LastSeen {
				age = time.Duration(nowMillis-s.LastSeen) * time.Millisecond
			}
			fmt.Fprintf(w, "%s\t%s\t0x%04x\t0x%04x\t0x%04x\t0x%04x\t%d\t%s ago\n",
				domain.DomainID, s.SourceAddress, s.Priority, s.PortRole, s.RingState,
				s.SequenceID, s.Frames, age.Truncate(time.Millisecond))
		}
	}
	return w.Flush()
}

func NewDomainsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "List observed MRP domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			domains, err := newApiClient(cfg).ListDomains()
			if err != nil {
				return err
			}
			return writeDomains(cmd.OutOrStdout(), domains, time.Now())
		},
	}
	return cmd
}

func NewDomainCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain UUID",
		Short: "Show ring participants of an MRP domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, err := newApiClient(cfg).GetDomain(args[0])
			if err != nil {
				return err
			}
			return writeDomains(cmd.OutOrStdout(), []*monitor.DomainView{domain}, time.Now())
		},
	}
	return cmd
}

func NewStatsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show monitor frame counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := newApiClient(cfg).GetStats()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "decoded: %d\nfailed: %d\nignored: %d\n",
				stats.Decoded, stats.Failed, stats.Ignored)
			return nil
		},
	}
	return cmd
}
