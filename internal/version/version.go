// Package version parses and orders free-form Java runtime version strings.
//
// A version string is split into segments: integers, qualifiers (alpha, rc,
// ...) and nested lists. Segments are separated by '.', by '-', and by every
// transition between digits and non-digits. A '-' that follows a number and
// is itself followed by a digit opens a nested list, so "1.0-1" and "1.0.1"
// are structurally different. After parsing, trailing null segments (0, the
// release qualifier, empty lists) are dropped from every list, which makes
// "1", "1.0" and "1.0.0" the same version.
//
// Ordering of segments, lowest first:
//
//	qualifier < nested list < null < positive integer
//
// Known qualifiers rank as
//
//	<unknown> < snapshot < alpha < beta < milestone < rc < sp < "" (release)
//
// and unknown qualifiers compare lexically among themselves. Parsing never
// fails; input that looks nothing like a version degrades to qualifiers.
package version

import (
	"cmp"
	"strconv"
	"strings"
)

// Key is a parsed, comparable version. The zero value is the empty version.
type Key struct {
	value     string
	canonical string
	items     *listItem
}

// Parse converts text into a Key.
func Parse(text string) Key {
	root := &listItem{}
	s := strings.ToLower(text)

	list := root
	stack := []*listItem{root}
	isDigit := false
	start := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '.':
			if i == start {
				list.add(intItem("0"))
			} else {
				list.add(parseItem(isDigit, s[start:i]))
			}
			start = i + 1

		case c == '-':
			if i == start {
				list.add(intItem("0"))
			} else {
				list.add(parseItem(isDigit, s[start:i]))
			}
			start = i + 1

			if isDigit {
				// 1.0-x is 1-x
				list.normalize()
				if i+1 < len(s) && isASCIIDigit(s[i+1]) {
					// only "1-1" needs a sub-list; "1-rc" stays flat
					sub := &listItem{}
					list.add(sub)
					list = sub
					stack = append(stack, sub)
				}
			}

		case isASCIIDigit(c):
			if !isDigit && i > start {
				list.add(newQualifier(s[start:i], true))
				start = i
			}
			isDigit = true

		default:
			if isDigit && i > start {
				list.add(parseItem(true, s[start:i]))
				start = i
			}
			isDigit = false
		}
	}

	if len(s) > start {
		list.add(parseItem(isDigit, s[start:]))
	}

	for i := len(stack) - 1; i >= 0; i-- {
		stack[i].normalize()
	}

	return Key{value: text, canonical: root.String(), items: root}
}

// Compare returns -1 if a < b, 0 if a == b and +1 if a > b.
func Compare(a, b Key) int {
	return compareLists(a.list(), b.list())
}

// String returns the text the key was parsed from.
func (k Key) String() string {
	return k.value
}

// Canonical returns the normalized structure of the key, e.g. "1.8.0_322"
// becomes "(1,8,0,_,322)". Separators inside qualifiers are escaped with a
// backslash, so two keys compare equal exactly when their canonical forms
// match.
func (k Key) Canonical() string {
	if k.items == nil {
		return "()"
	}
	return k.canonical
}

// Major returns the leading numeric component. Versions using the pre-9
// "1.x" scheme report x, so "1.8.0_322" is major 8.
func (k Key) Major() (int, bool) {
	items := k.list()
	if len(items) == 0 {
		return 0, false
	}
	first, ok := items[0].(intItem)
	if !ok {
		return 0, false
	}
	if first == "1" && len(items) > 1 {
		if second, ok := items[1].(intItem); ok {
			return second.int()
		}
	}
	return first.int()
}

func (k Key) list() []item {
	if k.items == nil {
		return nil
	}
	return k.items.items
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func parseItem(isDigit bool, buf string) item {
	if isDigit {
		return newInt(buf)
	}
	return newQualifier(buf, false)
}

// item is one segment of a version. A nil item stands for the padding
// used when one list is shorter than the other.
type item interface {
	isNull() bool
	String() string
}

// Segment classes in ascending order.
const (
	classQualifier = iota
	classList
	classNull
	classInt
)

func classOf(it item) int {
	if it == nil || it.isNull() {
		return classNull
	}
	switch it.(type) {
	case qualifier:
		return classQualifier
	case *listItem:
		return classList
	default:
		return classInt
	}
}

func compareItems(a, b item) int {
	ca, cb := classOf(a), classOf(b)
	if ca != cb {
		return cmp.Compare(ca, cb)
	}

	switch ca {
	case classQualifier:
		return compareQualifiers(a.(qualifier), b.(qualifier))
	case classList:
		return compareLists(a.(*listItem).items, b.(*listItem).items)
	case classInt:
		return compareDigits(string(a.(intItem)), string(b.(intItem)))
	default:
		return 0
	}
}

func compareLists(a, b []item) int {
	for i := range max(len(a), len(b)) {
		var l, r item
		if i < len(a) {
			l = a[i]
		}
		if i < len(b) {
			r = b[i]
		}
		if c := compareItems(l, r); c != 0 {
			return c
		}
	}
	return 0
}

// intItem holds a decimal number without leading zeros, so arbitrarily
// long digit runs compare correctly.
type intItem string

func newInt(digits string) intItem {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return "0"
	}
	return intItem(trimmed)
}

func (i intItem) isNull() bool   { return i == "0" }
func (i intItem) String() string { return string(i) }

func (i intItem) int() (int, bool) {
	n, err := strconv.Atoi(string(i))
	if err != nil {
		return 0, false
	}
	return n, true
}

func compareDigits(a, b string) int {
	if len(a) != len(b) {
		return cmp.Compare(len(a), len(b))
	}
	return strings.Compare(a, b)
}

// qualifier is a non-numeric segment such as "beta" or "ea".
type qualifier string

var qualifierRank = map[string]int{
	"snapshot":  1,
	"alpha":     2,
	"beta":      3,
	"milestone": 4,
	"rc":        5,
	"sp":        6,
	"":          7,
}

const releaseRank = 7

var qualifierAliases = map[string]string{
	"ga":    "",
	"final": "",
	"cr":    "rc",
}

// newQualifier builds a qualifier segment. Release qualifiers ("", "ga",
// "final") are null segments and are stored as integer zero so that the
// canonical form of equal versions is identical.
func newQualifier(s string, followedByDigit bool) item {
	if followedByDigit && len(s) == 1 {
		switch s {
		case "a":
			s = "alpha"
		case "b":
			s = "beta"
		case "m":
			s = "milestone"
		}
	}
	if alias, ok := qualifierAliases[s]; ok {
		s = alias
	}
	if qualifierRank[s] == releaseRank {
		return intItem("0")
	}
	return qualifier(s)
}

func (q qualifier) isNull() bool   { return qualifierRank[string(q)] == releaseRank }
func (q qualifier) String() string { return canonicalEscaper.Replace(string(q)) }

var canonicalEscaper = strings.NewReplacer(`\`, `\\`, ",", `\,`, "(", `\(`, ")", `\)`)

func compareQualifiers(a, b qualifier) int {
	if c := cmp.Compare(qualifierRank[string(a)], qualifierRank[string(b)]); c != 0 {
		return c
	}
	return strings.Compare(string(a), string(b))
}

// listItem is an ordered run of segments. The root of every Key is a
// listItem, and so is each sub-list opened by "-<digit>".
type listItem struct {
	items []item
}

func (l *listItem) add(it item) {
	l.items = append(l.items, it)
}

func (l *listItem) isNull() bool { return len(l.items) == 0 }

// normalize drops trailing null segments.
func (l *listItem) normalize() {
	for len(l.items) > 0 && l.items[len(l.items)-1].isNull() {
		l.items = l.items[:len(l.items)-1]
	}
}

func (l *listItem) String() string {
	parts := make([]string, len(l.items))
	for i, it := range l.items {
		parts[i] = it.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}
