package records

import (
	"context"
	"database/sql"
	"errors"
	"time"

	commonerrors "classaction-admin/internal/common/errors"
	"classaction-admin/internal/models"
)

const (
	queryListMembers     = "list_members"
	queryListSubmissions = "list_submissions"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS members (
	id          BIGINT PRIMARY KEY,
	email       TEXT NOT NULL UNIQUE,
	name        TEXT,
	phone       TEXT,
	national_id TEXT,
	address     TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS submissions (
	id            BIGINT PRIMARY KEY,
	member_email  TEXT NOT NULL,
	intention     TEXT,
	address       TEXT,
	email         TEXT,
	franchise     TEXT,
	backup_phone  TEXT,
	coupon_used   BOOLEAN NOT NULL DEFAULT FALSE,
	agree_privacy BOOLEAN NOT NULL DEFAULT FALSE,
	confirm_info  BOOLEAN NOT NULL DEFAULT FALSE,
	stores        TEXT,
	applicants    TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	status        TEXT NOT NULL DEFAULT 'APPLIED',
	litigation    TEXT
);

CREATE INDEX IF NOT EXISTS submissions_member_email_idx ON submissions (member_email);
`

// Postgres reads records with plain SQL. stores and applicants are TEXT
// columns holding JSON arrays.
type Postgres struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgres wraps db. A positive timeout bounds every query.
func NewPostgres(db *sql.DB, timeout time.Duration) *Postgres {
	return &Postgres{db: db, timeout: timeout}
}

func (p *Postgres) ListMembers(ctx context.Context) ([]models.Member, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, email, name, phone, national_id, address, created_at
		FROM members
		ORDER BY id`)
	if err != nil {
		return nil, queryError(ctx, queryListMembers, err)
	}
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		var m models.Member
		var name, phone, nationalID, address sql.NullString
		if err := rows.Scan(&m.ID, &m.Email, &name, &phone, &nationalID, &address, &m.CreatedAt); err != nil {
			return nil, queryError(ctx, queryListMembers, err)
		}
		m.Name = name.String
		m.Phone = phone.String
		m.NationalID = nationalID.String
		m.Address = address.String
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, queryListMembers, err)
	}
	return members, nil
}

func (p *Postgres) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, member_email, intention, address, email, franchise, backup_phone,
		       coupon_used, agree_privacy, confirm_info, stores, applicants,
		       created_at, status, litigation
		FROM submissions
		ORDER BY id`)
	if err != nil {
		return nil, queryError(ctx, queryListSubmissions, err)
	}
	defer rows.Close()

	subs := make([]models.Submission, 0)
	for rows.Next() {
		var s models.Submission
		var intention, address, email, franchise, backup, litigation sql.NullString
		var status string
		if err := rows.Scan(
			&s.ID, &s.MemberEmail, &intention, &address, &email, &franchise, &backup,
			&s.CouponUsed, &s.AgreePrivacy, &s.ConfirmInfo, &s.Stores, &s.Applicants,
			&s.CreatedAt, &status, &litigation,
		); err != nil {
			return nil, queryError(ctx, queryListSubmissions, err)
		}
		s.Intention = intention.String
		s.Address = address.String
		s.Email = email.String
		s.Franchise = franchise.String
		s.BackupPhone = backup.String
		s.Litigation = litigation.String
		s.Status = models.SubmissionStatus(status)
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, queryListSubmissions, err)
	}
	return subs, nil
}

// EnsureSchema creates the tables when they do not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schemaSQL); err != nil {
		return commonerrors.NewQueryExecutionFailedError("ensure_schema", err)
	}
	return nil
}

// InsertMembers writes members, skipping ids that already exist. It returns
// how many rows were inserted.
func (p *Postgres) InsertMembers(ctx context.Context, members []models.Member) (int64, error) {
	const q = `
		INSERT INTO members (id, email, name, phone, national_id, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	return p.insertAll(ctx, "insert_members", q, len(members), func(i int) []interface{} {
		m := members[i]
		return []interface{}{m.ID, m.Email, m.Name, m.Phone, m.NationalID, m.Address, m.CreatedAt}
	})
}

// InsertSubmissions writes submissions, skipping ids that already exist.
func (p *Postgres) InsertSubmissions(ctx context.Context, subs []models.Submission) (int64, error) {
	const q = `
		INSERT INTO submissions (id, member_email, intention, address, email, franchise, backup_phone,
		                         coupon_used, agree_privacy, confirm_info, stores, applicants,
		                         created_at, status, litigation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO NOTHING`

	return p.insertAll(ctx, "insert_submissions", q, len(subs), func(i int) []interface{} {
		s := subs[i]
		return []interface{}{
			s.ID, s.MemberEmail, s.Intention, s.Address, s.Email, s.Franchise, s.BackupPhone,
			s.CouponUsed, s.AgreePrivacy, s.ConfirmInfo, s.Stores, s.Applicants,
			s.CreatedAt, string(s.Status), s.Litigation,
		}
	})
}

func (p *Postgres) insertAll(ctx context.Context, name, query string, n int, args func(int) []interface{}) (int64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, commonerrors.NewRecordStoreUnavailableError(err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, commonerrors.NewQueryExecutionFailedError(name, err)
	}
	defer stmt.Close()

	var inserted int64
	for i := 0; i < n; i++ {
		res, err := stmt.ExecContext(ctx, args(i)...)
		if err != nil {
			return 0, queryError(ctx, name, err)
		}
		affected, err := res.RowsAffected()
		if err == nil {
			inserted += affected
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, commonerrors.NewQueryExecutionFailedError(name, err)
	}
	return inserted, nil
}

func (p *Postgres) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

func queryError(ctx context.Context, query string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return commonerrors.NewQueryTimeoutError(query)
	}
	return commonerrors.NewQueryExecutionFailedError(query, err)
}
