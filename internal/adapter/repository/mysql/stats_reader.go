package mysql

import (
	"context"
	"errors"

	domain "digilib-backend/internal/domain/loanrequest"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql" // dialect registration
	"github.com/jmoiron/sqlx"
)

const (
	dialectMySQL      = "mysql"
	tableLoanRequests = "loan_requests"
	colStatus         = "status"
	colEmployeeCode   = "employee_code"
	aliasTotal        = "total"
)

var ErrBuildingQueryFailed = errors.New("building stats query failed")

// StatsReader runs the aggregate read path on plain SQL, outside gorm.
type StatsReader struct{ db *sqlx.DB }

func NewStatsReader(db *sqlx.DB) *StatsReader { return &StatsReader{db: db} }

type statusCountRow struct {
	Status string `db:"status"`
	Total  int64  `db:"total"`
}

func buildCountByStatusQuery(employeeCode string) (string, []any, error) {
	ds := goqu.Dialect(dialectMySQL).
		From(tableLoanRequests).
		Select(goqu.C(colStatus), goqu.COUNT(goqu.Star()).As(aliasTotal)).
		GroupBy(goqu.C(colStatus))
	if employeeCode != "" {
		ds = ds.Where(goqu.C(colEmployeeCode).Eq(employeeCode))
	}

	q, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, err)
	}
	return q, args, nil
}

func (s *StatsReader) CountByStatus(ctx context.Context, employeeCode string) (map[domain.Status]int64, error) {
	q, args, err := buildCountByStatusQuery(employeeCode)
	if err != nil {
		return nil, err
	}

	var rows []statusCountRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}

	out := make(map[domain.Status]int64, len(rows))
	for _, r := range rows {
		out[domain.Status(r.Status)] = r.Total
	}
	return out, nil
}
