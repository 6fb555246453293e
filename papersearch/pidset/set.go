// Package pidset implements a run-length encoded set of submission IDs that
// remembers the order in which IDs were specified.
package pidset

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// MaxEnumerate is the largest set IDs will materialize.
const MaxEnumerate = 1000

// Range is a half-open run [Lo, Hi) of submission IDs.
type Range struct {
	Lo int
	Hi int
	// Rank is the insertion-order position of the run's first ID, or of
	// its last ID when Reversed.
	Rank     int
	Reversed bool
	// Explicit is true when the run came from a short literal list.
	Explicit bool
}

// Set is a sorted list of non-overlapping runs. The zero value is an empty,
// in-order set.
type Set struct {
	r          []Range
	n          int
	outOfOrder bool
}

// New returns an empty set.
func New() *Set {
	return &Set{}
}

// Of returns a set containing ids in the order given.
func Of(ids ...int) *Set {
	s := New()
	for _, id := range ids {
		s.AddRange(id, id)
	}
	return s
}

// Len returns the number of IDs in the set.
func (s *Set) Len() int { return s.n }

// Empty reports whether the set contains no IDs.
func (s *Set) Empty() bool { return len(s.r) == 0 }

// InOrder reports whether ranks still follow ascending ID order. It becomes
// false once a reversed or out-of-sequence range is added.
func (s *Set) InOrder() bool { return !s.outOfOrder }

// Ranges returns a copy of the runs in ascending ID order.
func (s *Set) Ranges() []Range {
	return slices.Clone(s.r)
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	return &Set{r: slices.Clone(s.r), n: s.n, outOfOrder: s.outOfOrder}
}

// lowerBound returns the index of the run containing p, or of the first run
// after p.
func (s *Set) lowerBound(p int) int {
	l, r := 0, len(s.r)
	for l < r {
		m := l + (r-l)>>1
		x := s.r[m]
		if p < x.Lo {
			r = m
		} else if p >= x.Hi {
			l = m + 1
		} else {
			return m
		}
	}
	return l
}

// IndexOf returns the insertion rank of id.
func (s *Set) IndexOf(id int) (int, bool) {
	i := s.lowerBound(id)
	if i < len(s.r) && id >= s.r[i].Lo {
		x := s.r[i]
		d := id - x.Lo
		if x.Reversed {
			return x.Rank - d, true
		}
		return x.Rank + d, true
	}
	return 0, false
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id int) bool {
	_, ok := s.IndexOf(id)
	return ok
}

func (s *Set) addDRange(p0, p1 int, rev, explicit bool) {
	for p0 < p1 {
		i := s.lowerBound(p0)
		if i < len(s.r) && p0 >= s.r[i].Lo {
			p0 = s.r[i].Hi
			i++
		}
		p1x := p1
		if i < len(s.r) && p1 >= s.r[i].Lo {
			p1x = s.r[i].Lo
		}
		if p0 < p1x {
			if rev || i < len(s.r) {
				s.outOfOrder = true
			}
			if i > 0 && !s.outOfOrder && p0 == s.r[i-1].Hi {
				s.r[i-1].Hi = p1x
				s.r[i-1].Explicit = s.r[i-1].Explicit && explicit
			} else {
				rank := s.n
				if rev {
					rank += p1x - p0 - 1
				}
				s.r = slices.Insert(s.r, i, Range{Lo: p0, Hi: p1x, Rank: rank, Reversed: rev, Explicit: explicit})
			}
			s.n += p1x - p0
		}
		p0 = max(p0, p1x)
	}
}

// AddRange adds the inclusive range between lo and hi. When lo > hi the
// range is reversed: hi is ranked first.
func (s *Set) AddRange(lo, hi int) {
	if lo <= hi {
		s.addDRange(lo, hi+1, false, hi-lo <= 4)
	} else {
		s.addDRange(hi, lo+1, true, false)
	}
}

// Merge adds every ID of o to s. Runs of an out-of-order o are added in rank
// order so that o's insertion order carries over.
func (s *Set) Merge(o *Set) {
	rs := o.r
	if o.outOfOrder {
		rs = slices.Clone(rs)
		slices.SortStableFunc(rs, func(a, b Range) int { return cmp.Compare(a.Rank, b.Rank) })
	}
	for _, r := range rs {
		s.addDRange(r.Lo, r.Hi, r.Reversed, r.Explicit)
	}
}

// IDs returns the IDs in ascending order, or nil if the set has more than
// MaxEnumerate members.
func (s *Set) IDs() []int {
	if s.n > MaxEnumerate {
		return nil
	}
	a := make([]int, 0, s.n)
	for _, r := range s.r {
		for i := r.Lo; i < r.Hi; i++ {
			a = append(a, i)
		}
	}
	return a
}

// SQLPredicate returns a SQL boolean expression testing column for
// membership.
func (s *Set) SQLPredicate(column string) string {
	if len(s.r) == 0 {
		return "false"
	}
	if s.n <= 8*len(s.r) {
		if ids := s.IDs(); ids != nil {
			var b strings.Builder
			b.WriteString(column)
			b.WriteString(" in (")
			for i, id := range ids {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(strconv.Itoa(id))
			}
			b.WriteByte(')')
			return b.String()
		}
	}
	parts := make([]string, 0, len(s.r))
	for _, r := range s.r {
		parts = append(parts, "("+column+">="+strconv.Itoa(r.Lo)+" and "+column+"<"+strconv.Itoa(r.Hi)+")")
	}
	return "(" + strings.Join(parts, " or ") + ")"
}
