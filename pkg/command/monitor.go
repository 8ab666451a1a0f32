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

package command

import (
	"context"

	"jinr.ru/greenlab/go-mrp/pkg/capture"
	"jinr.ru/greenlab/go-mrp/pkg/config"
	"jinr.ru/greenlab/go-mrp/pkg/log"
	"jinr.ru/greenlab/go-mrp/pkg/monitor"
)

// StartMonitor runs the monitor on the source until the context is done
func StartMonitor(ctx context.Context, cfg *config.Config, source capture.Source) error {
	defer source.Close()

	s, err := monitor.NewServer(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("Monitor started: api: http://%s%s", cfg.ApiAddress(), monitor.ApiPrefix)
	return s.Run(source)
}

// OpenSource opens the capture file when path is set, the live interface otherwise
func OpenSource(cfg *config.Config, path string) (capture.Source, error) {
	if path != "" {
		log.Info("Reading capture file: %s", path)
		return capture.OpenFile(path)
	}
	log.Info("Capturing on interface: %s", cfg.CaptureConfig.Interface)
	return capture.OpenLive(cfg.CaptureConfig.Interface, cfg.CaptureConfig.SnapLen, cfg.PollTimeoutDuration())
}
