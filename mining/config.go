// The MIT License (MIT)
//
// # Copyright (c) 2025 powmine
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package mining

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MiningKeyConfig is one mining key entry: an m-of-n sharing weight plus
// the public keys it covers.
type MiningKeyConfig struct {
	Share uint64
	M     uint64
	Keys  []string
}

// ParseMiningKeyConfig parses the "share,m:key1,key2,...,keyK" form.
func ParseMiningKeyConfig(s string) (MiningKeyConfig, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return MiningKeyConfig{}, errors.Errorf("invalid mining key config %q: expected 'share,m:key1,key2,key3'", s)
	}

	shareM := strings.Split(parts[0], ",")
	if len(shareM) != 2 {
		return MiningKeyConfig{}, errors.Errorf("invalid mining key config %q: bad share,m prefix", s)
	}

	share, err := strconv.ParseUint(shareM[0], 10, 64)
	if err != nil {
		return MiningKeyConfig{}, errors.Wrapf(err, "invalid share in mining key config %q", s)
	}
	m, err := strconv.ParseUint(shareM[1], 10, 64)
	if err != nil {
		return MiningKeyConfig{}, errors.Wrapf(err, "invalid m in mining key config %q", s)
	}

	keys := strings.Split(parts[1], ",")
	for _, k := range keys {
		if k == "" {
			return MiningKeyConfig{}, errors.Errorf("invalid mining key config %q: empty key", s)
		}
	}

	return MiningKeyConfig{Share: share, M: m, Keys: keys}, nil
}

// ParseMiningKeyConfigs parses a whole configuration set. A nil result with
// a nil error means the caller supplied no keys and mining stays off.
func ParseMiningKeyConfigs(list []string) ([]MiningKeyConfig, error) {
	if len(list) == 0 {
		return nil, nil
	}
	configs := make([]MiningKeyConfig, 0, len(list))
	for _, s := range list {
		c, err := ParseMiningKeyConfig(s)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, nil
}
