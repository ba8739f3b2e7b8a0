// Package resolve maps free-text team names onto roster dataset keys.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Resolver holds the alias table. Aliases are stored folded.
type Resolver struct {
	aliases map[string]string
}

// New builds a Resolver from a nickname -> keyword table.
func New(aliases map[string]string) *Resolver {
	r := &Resolver{aliases: make(map[string]string, len(aliases))}
	for nick, keyword := range aliases {
		r.aliases[fold(nick)] = fold(keyword)
	}
	return r
}

// fold returns a caseless form of s. A Caser is stateful, so one is made per call.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Resolve returns the canonical key for query among keys.
//
// Exact caseless match wins, then an alias keyword found inside a key, then
// the query itself found inside a key. Keys are scanned in sorted order so
// ties resolve the same way on every call.
func (r *Resolver) Resolve(query string, keys []string) (string, error) {
	return r.match(query, keys, true)
}

// Claim is Resolve without the bare substring fallback: only an exact name
// or an alias selects a key. Registration uses it so a nickname that merely
// occurs inside a franchise name does not take that franchise.
func (r *Resolver) Claim(query string, keys []string) (string, error) {
	return r.match(query, keys, false)
}

func (r *Resolver) match(query string, keys []string, substring bool) (string, error) {
	q := fold(query)
	if q == "" {
		return "", fmt.Errorf("%w: empty name", ErrTeamNotFound)
	}

	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	folded := make([]string, len(sorted))
	for i, k := range sorted {
		folded[i] = fold(k)
	}

	for i, k := range folded {
		if k == q {
			return sorted[i], nil
		}
	}
	if keyword, ok := r.aliases[q]; ok {
		for i, k := range folded {
			if strings.Contains(k, keyword) {
				return sorted[i], nil
			}
		}
	}
	if substring {
		for i, k := range folded {
			if strings.Contains(k, q) {
				return sorted[i], nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrTeamNotFound, query)
}

// Keys lists the keys of any string-keyed map, for passing to Resolve.
func Keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
