// SPDX-License-Identifier: MPL-2.0

package msvcenv

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genEnvKey generates a key of the shape `set` prints: non-empty, no '='.
func genEnvKey() gopter.Gen {
	return gen.IntRange(1, 24).FlatMap(func(v interface{}) gopter.Gen {
		return gen.SliceOfN(v.(int), gen.IntRange(0, 64)).Map(func(chars []int) string {
			const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_()."
			b := make([]byte, len(chars))
			for i, c := range chars {
				b[i] = alphabet[c%len(alphabet)]
			}
			return string(b)
		})
	}, nil)
}

// genEnvValue generates printable values, '=' and ';' included.
func genEnvValue() gopter.Gen {
	return gen.IntRange(0, 60).FlatMap(func(v interface{}) gopter.Gen {
		return gen.SliceOfN(v.(int), gen.IntRange(32, 126)).Map(func(chars []int) string {
			b := make([]byte, len(chars))
			for i, c := range chars {
				b[i] = byte(c)
			}
			return string(b)
		})
	}, nil)
}

func TestParseSetOutputRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("rendered KEY=VALUE lines parse back unchanged", prop.ForAll(
		func(keys, values []string) bool {
			n := min(len(keys), len(values))
			var sb strings.Builder
			sb.WriteString("vcvarsall banner\r\n" + setMarker + " \r\n")
			want := make(Overlay, n)
			for i := range n {
				want[i] = Var{Key: keys[i], Value: values[i]}
				sb.WriteString(keys[i] + "=" + values[i] + "\r\n")
			}

			got, err := ParseSetOutput([]byte(sb.String()), setMarker)
			if err != nil || len(got) != len(want) {
				return false
			}
			for i := range want {
				if got[i] != want[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genEnvKey()),
		gen.SliceOf(genEnvValue()),
	))

	properties.Property("apply then lookup yields the last assignment per key", prop.ForAll(
		func(keys, values []string) bool {
			n := min(len(keys), len(values))
			o := make(Overlay, n)
			for i := range n {
				o[i] = Var{Key: keys[i], Value: values[i]}
			}
			env := NewMapEnvironment(nil)
			if err := o.Apply(env); err != nil {
				return false
			}
			for _, v := range o {
				last, _ := o.lastExact(v.Key)
				if env.Vars[v.Key] != last {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genEnvKey()),
		gen.SliceOf(genEnvValue()),
	))

	properties.TestingRun(t)
}

// lastExact is Lookup with case-sensitive matching, matching MapEnvironment.
func (o Overlay) lastExact(key string) (string, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return "", false
}
