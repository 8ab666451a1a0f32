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
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-mrp/pkg/command"
	"jinr.ru/greenlab/go-mrp/pkg/config"
)

const (
	IfaceOptionName = "iface"
	PcapOptionName  = "pcap"
	IPOptionName    = "ip"
	PortOptionName  = "port"
	DBOptionName    = "db"
)

func NewStartCommand(cfg *config.Config) *cobra.Command {
	var iface, pcap, ip, db string
	var port int
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start monitor server",
		Long:  "Capture MRP frames from an interface or a capture file and serve the observed rings over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if iface != "" && pcap != "" {
				return errors.New("--iface and --pcap are mutually exclusive")
			}
			if iface != "" {
				cfg.CaptureConfig.Interface = iface
			}
			if ip != "" {
				if net.ParseIP(ip) == nil {
					return fmt.Errorf("wrong IP: %s", ip)
				}
				cfg.ApiConfig.IP = ip
			}
			if port != 0 {
				cfg.ApiConfig.Port = port
			}
			if db != "" {
				cfg.DBPath = db
			}

			source, err := command.OpenSource(cfg, pcap)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return command.StartMonitor(ctx, cfg, source)
		},
	}
	cmd.Flags().StringVar(&iface, IfaceOptionName, "", fmt.Sprintf("Interface to capture on. E.g. %s", config.DefaultInterface))
	cmd.Flags().StringVar(&pcap, PcapOptionName, "", "Capture file to read instead of a live interface")
	cmd.Flags().StringVar(&ip, IPOptionName, "", fmt.Sprintf("IP to bind the API to. E.g. %s", config.DefaultIP))
	cmd.Flags().IntVar(&port, PortOptionName, 0, fmt.Sprintf("API port. E.g. %d", config.DefaultApiPort))
	cmd.Flags().StringVar(&db, DBOptionName, "", fmt.Sprintf("Monitor database. E.g. %s", config.DefaultDBPath()))
	return cmd
}
