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

import "github.com/powmine/minerd/noun"

// setMiningKeyPoke encodes [command set-mining-key pubkey].
func setMiningKeyPoke(pubkey string) noun.Noun {
	return noun.T(
		noun.Cord("command"),
		noun.Cord("set-mining-key"),
		noun.Cord(pubkey),
	)
}

// setMiningKeyAdvancedPoke encodes [command set-mining-key-advanced configs]
// where configs is a nil-terminated list of [share m keylist] triples.
//
// Both lists are built by prepending, so the first input config ends up
// deepest on the wire. The node depends on this order; do not "fix" it.
func setMiningKeyAdvancedPoke(configs []MiningKeyConfig) noun.Noun {
	configsList := noun.Noun(noun.D(0))
	for _, config := range configs {
		keysList := noun.Noun(noun.D(0))
		for _, key := range config.Keys {
			keysList = noun.C(noun.Cord(key), keysList)
		}

		tuple := noun.T(noun.D(config.Share), noun.D(config.M), keysList)
		configsList = noun.C(tuple, configsList)
	}

	return noun.T(
		noun.Cord("command"),
		noun.Cord("set-mining-key-advanced"),
		configsList,
	)
}

// enableMiningPoke encodes [command enable-mining flag]. The flag sense is
// inverted on the wire: 0 enables, 1 disables.
func enableMiningPoke(enable bool) noun.Noun {
	flag := uint64(1)
	if enable {
		flag = 0
	}
	return noun.T(
		noun.Cord("command"),
		noun.Cord("enable-mining"),
		noun.D(flag),
	)
}
