// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package codec

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/SnellerInc/swfcodec/compr"
)

// DefaultCompression is the body compression
// used by EncodeCompressed when none is configured.
const DefaultCompression = "zlib"

// Config holds the session settings that are
// usually fixed per deployment rather than per call.
//
// Config can be decoded from YAML or JSON:
//
//	strict: false
//	log_unknown: true
//	compression: zlib
type Config struct {
	// Strict rejects records that have no registered
	// decoder instead of capturing them verbatim.
	Strict bool `json:"strict"`
	// LogUnknown logs opaque captures at Info
	// level instead of Debug.
	LogUnknown bool `json:"log_unknown"`
	// Compression names the algorithm used for
	// compressed tag streams (see compr.Compression).
	Compression string `json:"compression,omitempty"`
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Compression != "" && compr.Compression(c.Compression) == nil {
		return fmt.Errorf("swfcodec: unknown compression %q", c.Compression)
	}
	return nil
}

// ParseConfig decodes a YAML (or JSON) configuration.
// Unknown fields are rejected.
func ParseConfig(buf []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(buf, &c); err != nil {
		return Config{}, fmt.Errorf("swfcodec: parsing config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads and parses the configuration file at path.
func LoadConfig(path string) (Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(buf)
}
