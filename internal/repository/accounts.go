package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/garmenttrack/internal/model"
)

const accountColumns = `id, email, name, role, status, suspend_reason, suspend_feedback, created_at, updated_at`

func scanAccount(row scanner) (*model.Account, error) {
	var (
		a      model.Account
		role   string
		status string
	)

	if err := row.Scan(
		&a.ID, &a.Email, &a.Name, &role, &status,
		&a.SuspendReason, &a.SuspendFeedback, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	a.Role = model.Role(role)
	a.Status = model.AccountStatus(status)

	return &a, nil
}

// CreateAccount сохраняет учётную запись, если email ещё не занят.
// Возвращает false без изменений в БД, если запись с таким email уже существует.
func (r *PostgresRepository) CreateAccount(ctx context.Context, a *model.Account) (bool, error) {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.now()
	}

	cmdTag, err := r.pool.Exec(ctx,
		`INSERT INTO accounts (id, email, name, role, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (email) DO NOTHING`,
		a.ID, a.Email, a.Name, string(a.Role), string(a.Status), a.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert account: %w", classify(err))
	}

	return cmdTag.RowsAffected() == 1, nil
}

// GetAccountByEmail возвращает учётную запись по email.
func (r *PostgresRepository) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
		email,
	)

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	return a, nil
}

// ListAccounts возвращает все учётные записи, начиная с самых новых.
func (r *PostgresRepository) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("select accounts: %w", err)
	}
	defer rows.Close()

	var res []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		res = append(res, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateAccount применяет частичное изменение роли и статуса одним запросом.
// Поля блокировки заполняются, только если итоговый статус suspended и он передан в изменении;
// при любом другом итоговом статусе они очищаются.
func (r *PostgresRepository) UpdateAccount(ctx context.Context, id string, upd model.AccountUpdate) (*model.Account, error) {
	var role, status *string
	if upd.Role != nil {
		v := string(*upd.Role)
		role = &v
	}
	if upd.Status != nil {
		v := string(*upd.Status)
		status = &v
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE accounts SET
		    role = COALESCE($2::text, role),
		    status = COALESCE($3::text, status),
		    suspend_reason = CASE
		        WHEN COALESCE($3::text, status) <> 'suspended' THEN ''
		        WHEN $3::text IS NULL THEN suspend_reason
		        ELSE $4 END,
		    suspend_feedback = CASE
		        WHEN COALESCE($3::text, status) <> 'suspended' THEN ''
		        WHEN $3::text IS NULL THEN suspend_feedback
		        ELSE $5 END,
		    updated_at = $6
		 WHERE id = $1
		 RETURNING `+accountColumns,
		id, role, status, upd.SuspendReason, upd.SuspendFeedback, r.now(),
	)

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("update account: %w", classify(err))
	}

	return a, nil
}
