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
	"encoding/binary"
	"strings"
	"time"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-mrp/pkg/log"
)

const (
	BucketPrefix = "domain_"
	StatsBucket  = "stats"
	StatDecoded  = "decoded"
	StatFailed   = "failed"
	StatIgnored  = "ignored"
)

type State struct {
	context.Context
	DB *bbolt.DB
}

func NewState(ctx context.Context, path string) (*State, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(StatsBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &State{
		Context: ctx,
		DB:      db,
	}, nil
}

// Close ...
func (s *State) Close() {
	s.DB.Close()
}

func BucketName(domainID string) string {
	return BucketPrefix + domainID
}

func uint64ToByte(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func byteToUint64(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func increment(tx *bbolt.Tx, key string) error {
	b := tx.Bucket([]byte(StatsBucket))
	if b == nil {
		return ErrNotFound{What: "Bucket", Key: StatsBucket}
	}
	return b.Put([]byte(key), uint64ToByte(byteToUint64(b.Get([]byte(key)))+1))
}

// Observe stores the summary as the latest frame of its source and bumps its frame counter
func (s *State) Observe(summary *FrameSummary) error {
	log.Debug("Observing MRP frame: domain: %s source: %s", summary.DomainID, summary.SourceAddress)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketName(summary.DomainID)))
		if err != nil {
			return err
		}
		frames := uint64(1)
		if prevBytes := b.Get([]byte(summary.SourceAddress)); prevBytes != nil {
			prev := &FrameSummary{}
			if err := yaml.Unmarshal(prevBytes, prev); err != nil {
				log.Warning("Overwriting unreadable frame summary: source: %s error: %s", summary.SourceAddress, err)
			} else {
				frames = prev.Frames + 1
			}
		}
		summary.Frames = frames
		summaryBytes, err := yaml.Marshal(summary)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(summary.SourceAddress), summaryBytes); err != nil {
			return err
		}
		return increment(tx, StatDecoded)
	})
}

// CountFailure records a frame which could not be decoded
func (s *State) CountFailure() error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		return increment(tx, StatFailed)
	})
}

// CountIgnored records a decoded frame without Test or Common TLV
func (s *State) CountIgnored() error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		return increment(tx, StatIgnored)
	})
}

// GetStats ...
func (s *State) GetStats() (*Stats, error) {
	stats := &Stats{}
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(StatsBucket))
		if b == nil {
			return ErrNotFound{What: "Bucket", Key: StatsBucket}
		}
		stats.Decoded = byteToUint64(b.Get([]byte(StatDecoded)))
		stats.Failed = byteToUint64(b.Get([]byte(StatFailed)))
		stats.Ignored = byteToUint64(b.Get([]byte(StatIgnored)))
		return nil
	}); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetFrameSummary ...
func (s *State) GetFrameSummary(domainID, sourceAddress string) (*FrameSummary, error) {
	summary := &FrameSummary{}
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName(domainID)))
		if b == nil {
			return ErrNotFound{What: "Domain", Key: domainID}
		}
		summaryBytes := b.Get([]byte(sourceAddress))
		if summaryBytes == nil {
			return ErrNotFound{What: "Source", Key: sourceAddress}
		}
		return yaml.Unmarshal(summaryBytes, summary)
	}); err != nil {
		return nil, err
	}
	return summary, nil
}

func readDomain(domainID string, b *bbolt.Bucket) (*DomainView, error) {
	view := &DomainView{DomainID: domainID, Sources: []*FrameSummary{}}
	err := b.ForEach(func(_, summaryBytes []byte) error {
		summary := &FrameSummary{}
		if err := yaml.Unmarshal(summaryBytes, summary); err != nil {
			log.Error("Error while unmarshalling FrameSummary %s", err)
			return err
		}
		view.Sources = append(view.Sources, summary)
		return nil
	})
	return view, err
}

// GetDomain returns all sources of a domain ordered by address
func (s *State) GetDomain(domainID string) (*DomainView, error) {
	var view *DomainView
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName(domainID)))
		if b == nil {
			return ErrNotFound{What: "Domain", Key: domainID}
		}
		var err error
		view, err = readDomain(domainID, b)
		return err
	}); err != nil {
		return nil, err
	}
	return view, nil
}

// GetAllDomains ...
func (s *State) GetAllDomains() ([]*DomainView, error) {
	log.Debug("Getting all domains")
	domains := []*DomainView{}
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bbolt.Bucket) error {
			if !strings.HasPrefix(string(name), BucketPrefix) {
				return nil
			}
			view, err := readDomain(strings.TrimPrefix(string(name), BucketPrefix), b)
			if err != nil {
				return err
			}
			domains = append(domains, view)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return domains, nil
}
