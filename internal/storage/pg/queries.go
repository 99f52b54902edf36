package pg

import (
	"fmt"
	"strings"
)

const (
	// WGS 84, the spheroid PostGIS uses for geography distances.
	spheroid = `SPHEROID["WGS 84",6378137,298.257223563]`

	// CreateTableQuery bootstraps the restaurants table for the seed tool.
	CreateTableQuery = `
	CREATE TABLE IF NOT EXISTS restaurants (
		"id"     TEXT PRIMARY KEY,
		"rating" INTEGER,
		"name"   TEXT,
		"site"   TEXT,
		"email"  TEXT,
		"phone"  TEXT,
		"street" TEXT,
		"city"   TEXT,
		"state"  TEXT,
		"lat"    DOUBLE PRECISION,
		"lng"    DOUBLE PRECISION
	)`

	retrieveQuery = `select %s from restaurants where "id"=$1`
	listQuery     = `select %s from restaurants order by "rating" asc, "id" asc`
	insertQuery   = `insert into restaurants (%s) values (%s)`
	updateQuery   = `update restaurants set %s where "id"=$1`
	deleteQuery   = `delete from restaurants where "id"=$1`
	CountQuery    = `select count(*) from restaurants`

	ratingsWithinQuery = `
	select "rating" from restaurants
	where "rating" is not null
	and ST_DistanceSpheroid(
		ST_MakePoint($2::double precision, $1::double precision),
		ST_MakePoint("lng", "lat"),
		'` + spheroid + `'
	) <= $3`
)

// Columns is the restaurants column order shared by every statement and by the CSV seed file.
var Columns = []string{"id", "rating", "name", "site", "email", "phone", "street", "city", "state", "lat", "lng"}

var (
	selectStmt = fmt.Sprintf(retrieveQuery, quotedColumns(Columns))
	listStmt   = fmt.Sprintf(listQuery, quotedColumns(Columns))
	insertStmt = fmt.Sprintf(insertQuery, quotedColumns(Columns), placeholders(1, len(Columns)))
	updateStmt = fmt.Sprintf(updateQuery, assignments(Columns[1:], 2))
)

func quotedColumns(cols []string) string {
	b := strings.Builder{}
	separator := ""
	for i := range cols {
		b.WriteString(separator)
		b.WriteString(`"` + cols[i] + `"`)
		separator = ", "
	}
	return b.String()
}

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}

func assignments(cols []string, from int) string {
	as := make([]string, len(cols))
	for i := range cols {
		as[i] = fmt.Sprintf(`"%s"=$%d`, cols[i], from+i)
	}
	return strings.Join(as, ", ")
}
