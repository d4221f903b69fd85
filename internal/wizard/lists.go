package wizard

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yungbote/facilitator-console/internal/domain"
)

const itemPrefix = "item"

// ToIndexedMap turns an ordered list into item1..itemN, skipping blank entries
// and numbering the survivors contiguously. A list with nothing left still
// yields {item1: ""} because the API rejects empty maps.
func ToIndexedMap(list []string) domain.IndexedList {
	out := domain.IndexedList{}
	n := 0
	for _, v := range list {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		n++
		out[itemPrefix+strconv.Itoa(n)] = v
	}
	if n == 0 {
		out[itemPrefix+"1"] = ""
	}
	return out
}

// FromIndexedMap orders item keys numerically and drops blank values.
// Keys that do not follow the itemN pattern sort after numbered ones.
func FromIndexedMap(m domain.IndexedList) []string {
	type entry struct {
		n   int
		key string
		val string
	}
	entries := make([]entry, 0, len(m))
	for k, v := range m {
		if strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(k, itemPrefix))
		if err != nil || !strings.HasPrefix(k, itemPrefix) {
			n = int(^uint(0) >> 1)
		}
		entries = append(entries, entry{n: n, key: k, val: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n < entries[j].n
		}
		return entries[i].key < entries[j].key
	})
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.val)
	}
	return out
}
