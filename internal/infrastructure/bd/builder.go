package db

import (
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"office-docflow/pkg/types"
)

// ApplyFilters добавляет только WHERE. Используется и для списков, и для COUNT(*).
// Неизвестные ключи игнорируются, в SQL попадают только колонки из allowedMap.
// Значение "a,b" превращается в IN.
func ApplyFilters(builder sq.SelectBuilder, filter types.Filter, allowedMap map[string]string) sq.SelectBuilder {
	for _, jsonField := range sortedKeys(filter.Filter) {
		dbCol, ok := allowedMap[jsonField]
		if !ok {
			continue
		}
		val := filter.Filter[jsonField]

		if s, ok := val.(string); ok && strings.Contains(s, ",") {
			builder = builder.Where(sq.Eq{dbCol: strings.Split(s, ",")})
		} else {
			builder = builder.Where(sq.Eq{dbCol: val})
		}
	}
	return builder
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ApplySearch ищет подстроку без учёта регистра хотя бы в одной из колонок.
// Символы % и _ в запросе считаются обычными.
func ApplySearch(builder sq.SelectBuilder, search string, columns []string) sq.SelectBuilder {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return builder
	}
	pattern := "%" + likeEscaper.Replace(search) + "%"
	or := make(sq.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, sq.ILike{col: pattern})
	}
	return builder.Where(or)
}

// ApplyListParams переводит Filter в WHERE/ORDER BY/LIMIT.
// Ключи обходятся в отсортированном порядке, чтобы SQL был детерминированным.
func ApplyListParams(builder sq.SelectBuilder, filter types.Filter, allowedMap map[string]string) sq.SelectBuilder {
	builder = ApplyFilters(builder, filter, allowedMap)

	hasID := false
	for _, jsonField := range sortedKeys(filter.Sort) {
		dbCol, ok := allowedMap[jsonField]
		if !ok {
			continue
		}
		sqlDir := "ASC"
		if strings.ToLower(filter.Sort[jsonField]) == "desc" {
			sqlDir = "DESC"
		}
		if jsonField == "id" {
			hasID = true
		}
		builder = builder.OrderBy(fmt.Sprintf("%s %s", dbCol, sqlDir))
	}
	// Одинаковый created_at не должен менять порядок между вызовами.
	if idCol, ok := allowedMap["id"]; ok && !hasID {
		builder = builder.OrderBy(idCol + " DESC")
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(uint64(filter.Limit))
		}
		if filter.Offset >= 0 {
			builder = builder.Offset(uint64(filter.Offset))
		}
	}

	return builder
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
