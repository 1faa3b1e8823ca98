package hashing

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
)

// StringSet is a set of strings with an order-independent MD5 checksum.
type StringSet struct {
	set map[string]struct{}
}

func NewStringSet(values ...string) *StringSet {
	s := &StringSet{set: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.Put(v)
	}
	return s
}

func (s *StringSet) Put(value string) {
	s.set[value] = struct{}{}
}

func (s *StringSet) Has(value string) bool {
	_, ok := s.set[value]
	return ok
}

func (s *StringSet) Size() int {
	return len(s.set)
}

// Values returns the entries in sorted order.
func (s *StringSet) Values() []string {
	values := make([]string, 0, len(s.set))
	for v := range s.set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Checksum returns the hex MD5 of the sorted, newline-terminated entries.
func (s *StringSet) Checksum() string {
	h := md5.New()
	for _, v := range s.Values() {
		h.Write([]byte(v + "\n"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Difference returns the sorted entries of s missing from other. A nil
// other yields every entry.
func (s *StringSet) Difference(other *StringSet) []string {
	var out []string
	for _, v := range s.Values() {
		if other == nil || !other.Has(v) {
			out = append(out, v)
		}
	}
	return out
}
