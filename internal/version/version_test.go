package version

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCanonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1", "(1)"},
		{"1.0", "(1)"},
		{"1.0.0", "(1)"},
		{"1.0-ga", "(1)"},
		{"1-final", "(1)"},
		{"1.0-1", "(1,(1))"},
		{"1.0.1", "(1,0,1)"},
		{"1-1-1", "(1,(1,(1)))"},
		{"1.8.0_322", "(1,8,0,_,322)"},
		{"17.0.2", "(17,0,2)"},
		{"1.0-alpha1", "(1,alpha,1)"},
		{"1.0-b2", "(1,beta,2)"},
		{"1.0-m3", "(1,milestone,3)"},
		{"1.0-cr1", "(1,rc,1)"},
		{"1.0-RC1", "(1,rc,1)"},
		{"007", "(7)"},
		{".1", "(0,1)"},
		{"", "()"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			k := Parse(tt.input)
			assert.Equal(t, tt.want, k.Canonical())
			assert.Equal(t, tt.input, k.String())
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		// trailing nulls
		{"1.0.0", "1", 0},
		{"1.0", "1", 0},
		{"1.0-ga", "1", 0},
		{"1-ga", "1", 0},
		{"1-final", "1.0.0", 0},

		// qualifiers rank below the release
		{"1-sp", "1", -1},
		{"1-rc", "1-sp", -1},
		{"1-alpha", "1-beta", -1},
		{"1-snapshot", "1-alpha", -1},
		{"1-milestone", "1-rc", -1},
		{"1-cr", "1-rc", 0},
		{"1-a1", "1-alpha-1", 0},
		{"1-foo", "1-snapshot", -1},
		{"1-bar", "1-foo", -1},

		// nested lists
		{"1.0-1", "1.0.1", -1},
		{"1-1", "1.0", -1},
		{"1-1", "1-sp", 1},
		{"1-1", "1-2", -1},
		{"1-1.1", "1-1", 1},

		// numbers
		{"1.10", "1.9", 1},
		{"17.0.10", "17.0.2", 1},
		{"21", "17.0.2", 1},
		{"1.8.0_322", "1.8.0_191", 1},
		{"1.8.0_322", "11", -1},
		{"99999999999999999999", "99999999999999999998", 1},
		{"010", "10", 0},

		// integers beat everything else in the same position
		{"1.1", "1-sp", 1},
		{"1.1", "1-1", 1},
		{"1.0.1", "1.0-sp", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			a, b := Parse(tt.a), Parse(tt.b)
			assert.Equal(t, tt.want, Compare(a, b), "Compare(%q, %q)", tt.a, tt.b)
			assert.Equal(t, -tt.want, Compare(b, a), "Compare(%q, %q)", tt.b, tt.a)
			assert.Equal(t, tt.want == 0, a.Canonical() == b.Canonical())
		})
	}
}

var corpus = []string{
	"", "0", "1", "1.0", "1.0.0", "1-ga", "1-sp", "1-1", "1.0-1", "1.0.1",
	"1-rc", "1-rc1", "1-alpha", "1-a1", "1-beta-2", "1-foo", "1-bar",
	"1.1", "1.10", "1.9", "1.8.0_322", "1.8.0_191", "1.8", "8", "11",
	"11.0.2", "11.0.20.1", "17", "17.0.2+8", "17-ea", "21", "21.0.1",
	"1-1-1", "1-1.1", "2.0-snapshot", "2.0", "2.0-ga-1", "2.0.0.1",
	"garbage", "..", "--", "1..2", "a1b2c3",
	"x.y", "x,y", "x\\,y", "1-(rc)", "1-rc)", "a(b", "a\\(b",
}

func TestCompareIsAntisymmetric(t *testing.T) {
	for _, x := range corpus {
		for _, y := range corpus {
			a, b := Parse(x), Parse(y)
			require.Equal(t, Compare(a, b), -Compare(b, a), "Compare(%q, %q)", x, y)
		}
	}
}

func TestCompareIsTransitive(t *testing.T) {
	for _, x := range corpus {
		for _, y := range corpus {
			for _, z := range corpus {
				a, b, c := Parse(x), Parse(y), Parse(z)
				if Compare(a, b) <= 0 && Compare(b, c) <= 0 {
					require.LessOrEqual(t, Compare(a, c), 0, "%q <= %q <= %q", x, y, z)
				}
			}
		}
	}
}

func TestCompareConsistentWithCanonical(t *testing.T) {
	for _, x := range corpus {
		for _, y := range corpus {
			a, b := Parse(x), Parse(y)
			require.Equal(t, Compare(a, b) == 0, a.Canonical() == b.Canonical(), "%q vs %q", x, y)
		}
	}
}

func TestSortOrder(t *testing.T) {
	keys := []Key{Parse("17.0.2"), Parse("1.8.0_322"), Parse("21"), Parse("11.0.20"), Parse("17.0.10")}
	slices.SortFunc(keys, func(a, b Key) int { return Compare(b, a) })

	got := make([]string, len(keys))
	for i, k := range keys {
		got[i] = k.String()
	}
	assert.Equal(t, []string{"21", "17.0.10", "17.0.2", "11.0.20", "1.8.0_322"}, got)
}

func TestMajor(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"17.0.2", 17, true},
		{"21", 21, true},
		{"11.0.20.1", 11, true},
		{"1.8.0_322", 8, true},
		{"1.8", 8, true},
		{"1", 1, true},
		{"17-ea", 17, true},
		{"jdk17", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Parse(tt.input).Major()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZeroKey(t *testing.T) {
	var k Key
	assert.Equal(t, "()", k.Canonical())
	assert.Equal(t, 0, Compare(k, Parse("0")))
	assert.Equal(t, -1, Compare(k, Parse("1")))
}

func TestCanonicalEscapesSeparators(t *testing.T) {
	dotted, comma := Parse("x.y"), Parse("x,y")
	assert.Equal(t, "(x,y)", dotted.Canonical())
	assert.Equal(t, `(x\,y)`, comma.Canonical())
	assert.Equal(t, -1, Compare(dotted, comma))

	assert.Equal(t, `(\(,1,\))`, Parse("(1)").Canonical())
	assert.NotEqual(t, Parse(`x\,y`).Canonical(), comma.Canonical())
}
