package codec

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/goliatone/go-bookopts/pkg/option"
)

// Any printable ASCII string survives a scheme round trip, quotes and
// backslashes included.
func TestProperty_StringSchemeRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	c := New(nil)

	properties.Property("decode(encode(s)) == s", prop.ForAll(
		func(runes []rune) bool {
			s := string(runes)
			opt := option.NewValueOption(cls("s"), s, option.UITypeString)
			text, err := c.Encode(opt, ProfileScheme)
			if err != nil {
				return false
			}
			dst := option.NewValueOption(cls("s"), "", option.UITypeString)
			if err := c.Decode(dst, text, ProfileScheme); err != nil {
				return false
			}
			got, _ := option.Get[string](dst)
			return got == s
		},
		gen.SliceOf(gen.RuneRange(' ', '~')),
	))

	properties.TestingRun(t)
}

func TestProperty_IntRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	c := New(nil)

	properties.Property("int64 values survive both profiles", prop.ForAll(
		func(n int64, scheme bool) bool {
			p := ProfileStream
			if scheme {
				p = ProfileScheme
			}
			opt := option.NewValueOption(cls("n"), n, option.UITypeString)
			text, err := c.Encode(opt, p)
			if err != nil {
				return false
			}
			dst := option.NewValueOption(cls("n"), int64(0), option.UITypeString)
			if err := c.Decode(dst, text, p); err != nil {
				return false
			}
			got, _ := option.Get[int64](dst)
			return got == n
		},
		gen.Int64(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Every in-range index selection decodes to the same ordered index list.
func TestProperty_MultichoiceRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150
	properties := gopter.NewProperties(parameters)
	c := New(nil)
	table := []option.Choice{
		{Key: "alpha"}, {Key: "beta"}, {Key: "gamma"}, {Key: "delta"}, {Key: "epsilon"},
	}

	properties.Property("selection survives both profiles", prop.ForAll(
		func(indices []int, scheme bool) bool {
			p := ProfileStream
			if scheme {
				p = ProfileScheme
			}
			src, err := option.NewListOption(cls("m"), indices, table, "")
			if err != nil {
				return false
			}
			text, err := c.Encode(src, p)
			if err != nil {
				return false
			}
			dst, err := option.NewListOption(cls("m"), nil, table, "")
			if err != nil {
				return false
			}
			if err := c.Decode(dst, text, p); err != nil {
				return false
			}
			got, _ := option.Get[[]int](dst)
			return slices.Equal(got, indices) || (len(got) == 0 && len(indices) == 0)
		},
		gen.SliceOf(gen.IntRange(0, len(table)-1)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_AbsoluteDateRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)
	c := New(nil)

	properties.Property("timestamps inside the bounds survive both profiles", prop.ForAll(
		func(ts int64, scheme bool) bool {
			p := ProfileStream
			if scheme {
				p = ProfileScheme
			}
			src, err := option.NewAbsoluteDateOption(cls("d"), "", ts)
			if err != nil {
				return false
			}
			text, err := c.Encode(src, p)
			if err != nil {
				return false
			}
			dst := option.NewDateOption(cls("d"), "")
			if err := c.Decode(dst, text, p); err != nil {
				return false
			}
			got, _ := option.Get[int64](dst)
			return got == ts
		},
		gen.Int64Range(option.MinTime+1, option.MaxTime-1),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
