package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/guzellestir/tenantgate/pkg/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Tenants ---

const tenantColumns = `id, slug, display_name, plan, active, owner_email, created_at, updated_at`

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(&t.ID, &t.Slug, &t.DisplayName, &t.Plan, &t.Active,
		&t.OwnerEmail, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	t, err := scanTenant(s.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant by slug: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) CreateTenant(ctx context.Context, t *models.Tenant) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tenants (id, slug, display_name, plan, active, owner_email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Slug, t.DisplayName, t.Plan, t.Active, t.OwnerEmail, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListTenants(ctx context.Context, filter TenantFilter) ([]*models.Tenant, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if filter.ActiveOnly {
		where = append(where, "active")
	}
	if filter.Plan != "" {
		where = append(where, fmt.Sprintf("plan = $%d", argIdx))
		args = append(args, filter.Plan)
		argIdx++
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tenants WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tenants: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM tenants WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			tenantColumns, whereClause, argIdx, argIdx+1), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, total, rows.Err()
}

func (s *PostgresStore) SetTenantActive(ctx context.Context, slug string, active bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tenants SET active = $2, updated_at = NOW() WHERE slug = $1`, slug, active)
	if err != nil {
		return fmt.Errorf("set tenant active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Feature flags ---

func (s *PostgresStore) GetTenantFeatures(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	var features []string
	err := s.pool.QueryRow(ctx,
		`SELECT features FROM tenant_features WHERE tenant_id = $1`, tenantID).Scan(&features)
	if errors.Is(err, pgx.ErrNoRows) {
		// No row means no features enabled, not an error.
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant features: %w", err)
	}
	if features == nil {
		features = []string{}
	}
	return features, nil
}

func (s *PostgresStore) SetTenantFeatures(ctx context.Context, tenantID uuid.UUID, features []string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tenant_features (tenant_id, features, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (tenant_id) DO UPDATE SET features = $2, updated_at = NOW()`,
		tenantID, features)
	if err != nil {
		return fmt.Errorf("set tenant features: %w", err)
	}
	return nil
}

// --- Admin users ---

func (s *PostgresStore) GetAdminUserByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var u models.AdminUser
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, last_login_at, created_at, updated_at
		 FROM admin_users WHERE email = $1`, strings.ToLower(email)).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) UpdateAdminLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE admin_users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update admin last login: %w", err)
	}
	return nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
