package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/service-directory/internal/domain/repository"
)

const serviceColumns = `
	id, name, category, subcategory, description,
	ST_Y(location::geometry) AS lat, ST_X(location::geometry) AS lng,
	address, contact, hours, special_hours, is_24_hours, timezone,
	rating, review_count, price_level, features, payment_methods, languages, images,
	verified, status, source, created_by, version, created_at, updated_at`

// pointExpr - точка запроса; аргументы идут в порядке (lng, lat)
const pointExpr = "ST_SetSRID(ST_MakePoint(%s, %s), 4326)::geography"

var sortColumns = map[repository.SortKey]string{
	repository.SortName:      "name",
	repository.SortCategory:  "category",
	repository.SortCreatedAt: "created_at",
	repository.SortRating:    "rating",
	repository.SortStatus:    "status",
	repository.SortID:        "id",
}

var textColumns = map[repository.TextField]string{
	repository.TextName:        "name",
	repository.TextSubcategory: "subcategory",
	repository.TextDescription: "description",
	repository.TextAddress:     "address->>'full'",
}

// sqlQuery собирает WHERE / ORDER BY с позиционными параметрами $n
type sqlQuery struct {
	where   []string
	orderBy []string
	args    []interface{}
}

func (b *sqlQuery) arg(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *sqlQuery) whereClause() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

// buildServiceQuery переводит ServiceQuery в условия SQL.
// withNear=false пропускает гео-условие и сортировку (для COUNT).
func buildServiceQuery(q repository.ServiceQuery, withNear bool) *sqlQuery {
	b := &sqlQuery{}

	if withNear && q.Near != nil {
		point := fmt.Sprintf(pointExpr, b.arg(q.Near.Point.Lng), b.arg(q.Near.Point.Lat))
		b.where = append(b.where, fmt.Sprintf("ST_DWithin(location, %s, %s)", point, b.arg(q.Near.RadiusMeters)))
		b.orderBy = append(b.orderBy, fmt.Sprintf("ST_Distance(location, %s)", point), "id")
	}

	if q.Status != "" {
		b.where = append(b.where, "status = "+b.arg(string(q.Status)))
	}
	if q.Category != "" {
		b.where = append(b.where, "category = "+b.arg(string(q.Category)))
	}

	if text := strings.TrimSpace(q.Text); text != "" && len(q.TextFields) > 0 {
		pattern := b.arg("%" + escapeLike(text) + "%")
		conditions := make([]string, 0, len(q.TextFields))
		for _, field := range q.TextFields {
			column, ok := textColumns[field]
			if !ok {
				continue
			}
			conditions = append(conditions, column+" ILIKE "+pattern)
		}
		if len(conditions) > 0 {
			b.where = append(b.where, "("+strings.Join(conditions, " OR ")+")")
		}
	}

	if withNear && q.Near == nil {
		for _, field := range q.Sort {
			column, ok := sortColumns[field.Key]
			if !ok {
				continue
			}
			direction := "ASC"
			if field.Desc {
				direction = "DESC"
			}
			b.orderBy = append(b.orderBy, pq.QuoteIdentifier(column)+" "+direction)
		}
	}

	return b
}

// selectSQL - полный SELECT с сортировкой и пагинацией
func (b *sqlQuery) selectSQL(q repository.ServiceQuery) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(serviceColumns)
	sb.WriteString(" FROM services")
	sb.WriteString(b.whereClause())
	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + b.arg(q.Limit))
	}
	if q.Skip > 0 {
		sb.WriteString(" OFFSET " + b.arg(q.Skip))
	}
	return sb.String()
}

func (b *sqlQuery) countSQL() string {
	return "SELECT COUNT(*) FROM services" + b.whereClause()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE: поиск всегда по буквальной подстроке
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
