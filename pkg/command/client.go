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
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-mrp/pkg/command/ifc"
	"jinr.ru/greenlab/go-mrp/pkg/config"
	"jinr.ru/greenlab/go-mrp/pkg/monitor"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

var _ ifc.ApiClient = &ApiClient{}

func NewApiClient(cfg *config.Config) ifc.ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s%s", cfg.ApiAddress(), monitor.ApiPrefix),
	}
}

// checkStatus turns a non 200 response into an error carrying the server message
func checkStatus(r *req.Resp) error {
	if r.Response().StatusCode == 200 {
		return nil
	}
	errResp := &monitor.ErrorResponse{}
	if err := r.ToJSON(errResp); err != nil || errResp.Error == "" {
		return errors.New(r.Response().Status)
	}
	return fmt.Errorf("%s: %s", r.Response().Status, errResp.Error)
}

// ListDomains sends request to get all observed MRP domains
func (c *ApiClient) ListDomains() ([]*monitor.DomainView, error) {
	r, err := req.Get(fmt.Sprintf("%s/domains", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	var domains []*monitor.DomainView
	if err = r.ToJSON(&domains); err != nil {
		return nil, err
	}
	return domains, nil
}

// GetDomain sends request to get ring participants of a domain
func (c *ApiClient) GetDomain(domainID string) (*monitor.DomainView, error) {
	r, err := req.Get(fmt.Sprintf("%s/domains/%s", c.ApiPrefix, domainID))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	view := &monitor.DomainView{}
	if err = r.ToJSON(view); err != nil {
		return nil, err
	}
	return view, nil
}

// GetStats ...
func (c *ApiClient) GetStats() (*monitor.Stats, error) {
	r, err := req.Get(fmt.Sprintf("%s/stats", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	stats := &monitor.Stats{}
	if err = r.ToJSON(stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Decode sends a payload to the monitor and returns the decoded document
func (c *ApiClient) Decode(payload []byte) (*monitor.DecodeResponse, error) {
	decodeReq := &monitor.DecodeRequest{Payload: hex.EncodeToString(payload)}
	r, err := req.Post(fmt.Sprintf("%s/decode", c.ApiPrefix), req.BodyJSON(decodeReq))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	decoded := &monitor.DecodeResponse{}
	if err = r.ToJSON(decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}
