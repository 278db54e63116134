package memstore

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"office-docflow/pkg/types"
)

// schema описывает, как фильтровать и сортировать записи коллекции.
// Ключи fields совпадают с ключами allowed-карт репозиториев PostgreSQL.
type schema[T any] struct {
	id        func(*T) uint64
	createdAt func(*T) time.Time
	fields    map[string]func(*T) string
	// search - поля для ?search=, те же, что ищет PostgreSQL.
	search func(*T) []string
}

func str(v interface{}) string { return fmt.Sprint(v) }

func (sc schema[T]) matches(item *T, filter map[string]interface{}) bool {
	for key, raw := range filter {
		get, ok := sc.fields[key]
		if !ok {
			continue
		}
		value := get(item)
		found := false
		for _, want := range strings.Split(str(raw), ",") {
			if value == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (sc schema[T]) found(item *T, search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" || sc.search == nil {
		return true
	}
	for _, v := range sc.search(item) {
		if strings.Contains(strings.ToLower(v), search) {
			return true
		}
	}
	return false
}

func (sc schema[T]) less(a, b *T, keys []string, dirs map[string]string) bool {
	for _, key := range keys {
		desc := strings.ToLower(dirs[key]) == "desc"
		var cmp int
		switch key {
		case "id":
			cmp = compareUint(sc.id(a), sc.id(b))
		case "created_at":
			cmp = sc.createdAt(a).Compare(sc.createdAt(b))
		default:
			get, ok := sc.fields[key]
			if !ok {
				continue
			}
			cmp = strings.Compare(get(a), get(b))
		}
		if cmp == 0 {
			continue
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	}
	return sc.id(a) > sc.id(b)
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// list повторяет семантику bd.ApplyListParams: фильтры, сортировка, id DESC последним, пагинация.
func list[T any](items []T, sc schema[T], filter types.Filter) ([]T, uint64) {
	out := make([]T, 0, len(items))
	for i := range items {
		if sc.matches(&items[i], filter.Filter) && sc.found(&items[i], filter.Search) {
			out = append(out, items[i])
		}
	}
	total := uint64(len(out))

	keys := make([]string, 0, len(filter.Sort))
	for k := range filter.Sort {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.SliceStable(out, func(i, j int) bool { return sc.less(&out[i], &out[j], keys, filter.Sort) })

	if filter.WithPagination {
		start := filter.Offset
		if start < 0 {
			start = 0
		}
		if start > len(out) {
			start = len(out)
		}
		end := len(out)
		if filter.Limit > 0 && start+filter.Limit < end {
			end = start + filter.Limit
		}
		out = out[start:end]
	}
	return out, total
}

func find[T any](items []T, sc schema[T], id uint64) (int, bool) {
	for i := range items {
		if sc.id(&items[i]) == id {
			return i, true
		}
	}
	return -1, false
}
