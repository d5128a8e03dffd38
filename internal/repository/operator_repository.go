package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/stayboard/internal/model"
	"github.com/iliyamo/stayboard/internal/utils"
)

type OperatorRepo struct{ DB *sql.DB }

func NewOperatorRepo(db *sql.DB) *OperatorRepo { return &OperatorRepo{DB: db} }

// Create hashes the password, inserts the operator and returns its ID.
func (r *OperatorRepo) Create(ctx context.Context, email, name, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO operators (email, name, password_hash, role) VALUES (?,?,?,?)",
		email, strings.TrimSpace(name), hash, role)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const operatorCols = "id,email,name,password_hash,role,is_active,created_at,updated_at"

func scanOperator(row *sql.Row) (model.Operator, error) {
	var o model.Operator
	err := row.Scan(&o.ID, &o.Email, &o.Name, &o.PasswordHash, &o.Role, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return o, ErrNotFound
	}
	return o, err
}

// GetByEmail fetches an operator by normalized email.
func (r *OperatorRepo) GetByEmail(ctx context.Context, email string) (model.Operator, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanOperator(r.DB.QueryRowContext(ctx,
		"SELECT "+operatorCols+" FROM operators WHERE email=? LIMIT 1", email))
}

// GetByID fetches an operator by id.
func (r *OperatorRepo) GetByID(ctx context.Context, id uint64) (model.Operator, error) {
	return scanOperator(r.DB.QueryRowContext(ctx,
		"SELECT "+operatorCols+" FROM operators WHERE id=? LIMIT 1", id))
}

// Count returns the number of operators; the first one registered becomes
// an admin.
func (r *OperatorRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM operators").Scan(&n)
	return n, err
}
