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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"sigs.k8s.io/yaml"
)

type CaptureConfig struct {
	Interface   string `json:"interface"`
	SnapLen     int    `json:"snapLen,omitempty"`
	PollTimeout int    `json:"pollTimeout,omitempty"` // milliseconds
}

func (c *CaptureConfig) PollTimeoutDuration() time.Duration {
	return time.Duration(c.PollTimeout) * time.Millisecond
}

type ApiConfig struct {
	IP   string `json:"ip,omitempty"`
	Port int    `json:"port,omitempty"`
}

type Config struct {
	LogLevel       string `json:"logLevel,omitempty"`
	DBPath         string `json:"dbPath,omitempty"`
	*CaptureConfig `json:"capture,omitempty"`
	*ApiConfig     `json:"api,omitempty"`
	filepath       string
}

// Path returns the file the config is loaded from and persisted to
func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) SetPath(path string) {
	c.filepath = path
}

// ApiAddress returns host:port of the monitor API
func (c *Config) ApiAddress() string {
	return fmt.Sprintf("%s:%d", c.ApiConfig.IP, c.ApiConfig.Port)
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return os.WriteFile(c.filepath, data, 0644)
}

func (c *Config) LoadConfig() error {
	data, err := os.ReadFile(c.filepath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Load reads the config file if it exists. A missing file leaves the defaults untouched.
func (c *Config) Load() error {
	err := c.LoadConfig()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load config %s: %w", c.filepath, err)
	}
	c.fillDefaults()
	return nil
}

// fillDefaults restores sections dropped by a partial config file
func (c *Config) fillDefaults() {
	defaults := NewDefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.DBPath == "" {
		c.DBPath = defaults.DBPath
	}
	if c.CaptureConfig == nil {
		c.CaptureConfig = defaults.CaptureConfig
	}
	if c.CaptureConfig.SnapLen == 0 {
		c.CaptureConfig.SnapLen = DefaultSnapLen
	}
	if c.CaptureConfig.PollTimeout == 0 {
		c.CaptureConfig.PollTimeout = DefaultPollTimeout
	}
	if c.ApiConfig == nil {
		c.ApiConfig = defaults.ApiConfig
	}
	if c.ApiConfig.IP == "" {
		c.ApiConfig.IP = DefaultIP
	}
	if c.ApiConfig.Port == 0 {
		c.ApiConfig.Port = DefaultApiPort
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return home
}

func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ConfigDir, ConfigFile)
}

func DefaultDBPath() string {
	return filepath.Join(homeDir(), ConfigDir, DBFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		DBPath:   DefaultDBPath(),
		CaptureConfig: &CaptureConfig{
			Interface:   DefaultInterface,
			SnapLen:     DefaultSnapLen,
			PollTimeout: DefaultPollTimeout,
		},
		ApiConfig: &ApiConfig{
			IP:   DefaultIP,
			Port: DefaultApiPort,
		},
		filepath: DefaultConfigPath(),
	}
}
