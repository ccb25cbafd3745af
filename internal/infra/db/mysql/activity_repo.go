package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/estatehub/internal/domain/activity"
)

type ActivityRepository struct{ base }

func NewActivityRepository(db *sql.DB) *ActivityRepository { return &ActivityRepository{base{db: db}} }

func (r *ActivityRepository) Save(ctx context.Context, e *domain.Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_logs (id, user_id, action, details, created_at) VALUES (?,?,?,?,?)`,
		e.ID, nullString(e.UserID), e.Action, e.Details, e.CreatedAt)
	return r.translate(err)
}

// Latest entries, newest first, with the user's current name.
func (r *ActivityRepository) Latest(ctx context.Context, limit int) ([]*domain.Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT a.id, COALESCE(a.user_id, ''), a.action, a.details, a.created_at, COALESCE(u.name, '')
FROM activity_logs a
LEFT JOIN users u ON u.id = a.user_id
ORDER BY a.created_at DESC, a.id
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Details, &e.CreatedAt, &e.UserName); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *ActivityRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activity_logs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
