// Package sanitize removes sensitive fields from records before they leave the business, e.g. when a client report is
// exported. A field is sensitive when its key contains any denylisted substring (case-insensitive), or when it is an
// internal computed field.
package sanitize

import (
	"strings"

	"github.com/bookingdash/dashtool/record"
)

// DefaultDenylist holds the substrings that mark a key as financial. Matching is by substring, so "totally_unrelated"
// is removed along with "totals".
var DefaultDenylist = []string{"total", "revenue", "price", "cost", "invoice_amount", "amount", "fee", "charge"}

// DefaultInternalKeys are computed fields that are always removed.
var DefaultInternalKeys = []string{"_revenue"}

// KeyPredicate reports whether a key should be removed.
type KeyPredicate func(key string) bool

// None matches no key.
func None(string) bool { return false }

// Keys matches any of the given key names exactly.
func Keys(names ...string) KeyPredicate {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(key string) bool {
		_, ok := set[key]
		return ok
	}
}

// Prefix matches keys that begin with the given marker. An empty marker matches nothing.
func Prefix(marker string) KeyPredicate {
	if marker == "" {
		return None
	}
	return func(key string) bool {
		return strings.HasPrefix(key, marker)
	}
}

// AnyOf matches a key if any of the predicates match it. Nil predicates are ignored.
func AnyOf(preds ...KeyPredicate) KeyPredicate {
	return func(key string) bool {
		for _, p := range preds {
			if p != nil && p(key) {
				return true
			}
		}
		return false
	}
}

type Config struct {
	// Denylist is the set of substrings that mark a key as sensitive. Entries are compared case-insensitively.
	Denylist []string

	// Internal marks internal-only keys, removed regardless of the denylist. A nil Internal matches nothing.
	Internal KeyPredicate
}

// Sanitizer is safe for concurrent use; it holds no mutable state after construction.
type Sanitizer struct {
	denylist []string
	internal KeyPredicate
}

// New builds a Sanitizer from the config. The denylist is used as given; pass DefaultDenylist for the standard set.
func New(cfg Config) *Sanitizer {
	deny := make([]string, len(cfg.Denylist))
	for i, d := range cfg.Denylist {
		deny[i] = strings.ToLower(d)
	}
	internal := cfg.Internal
	if internal == nil {
		internal = None
	}
	return &Sanitizer{denylist: deny, internal: internal}
}

// Default returns a Sanitizer using DefaultDenylist and DefaultInternalKeys.
func Default() *Sanitizer {
	return New(Config{
		Denylist: DefaultDenylist,
		Internal: Keys(DefaultInternalKeys...),
	})
}

// Denylist returns a copy of the lower-cased denylist.
func (s *Sanitizer) Denylist() []string {
	out := make([]string, len(s.denylist))
	copy(out, s.denylist)
	return out
}

// Sensitive reports whether key would be removed.
func (s *Sanitizer) Sensitive(key string) bool {
	if s.internal(key) {
		return true
	}
	lower := strings.ToLower(key)
	for _, d := range s.denylist {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

// Record returns a new record holding every non-sensitive field of r, in the same order and with unchanged values.
// r is not modified.
func (s *Sanitizer) Record(r record.Record) record.Record {
	out := make(record.Record, 0, len(r))
	for _, f := range r {
		if s.Sensitive(f.Key) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Records sanitizes each record independently.
func (s *Sanitizer) Records(rs []record.Record) []record.Record {
	out := make([]record.Record, len(rs))
	for i, r := range rs {
		out[i] = s.Record(r)
	}
	return out
}

// Removed lists the keys of r that Record would drop, in order.
func (s *Sanitizer) Removed(r record.Record) []string {
	var removed []string
	for _, f := range r {
		if s.Sensitive(f.Key) {
			removed = append(removed, f.Key)
		}
	}
	return removed
}
