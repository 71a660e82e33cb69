// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"wing_backend/internal/feature/auth/domain/entity"
	"wing_backend/internal/feature/auth/usecase"
)

// uniqueViolation は Postgres の unique_violation (SQLSTATE 23505) です。
const uniqueViolation = "23505"

type userPostgres struct {
	db *gorm.DB
}

var _ usecase.UserRepository = (*userPostgres)(nil)

// NewUserRepository はユーザーの gorm リポジトリを生成します。
func NewUserRepository(db *gorm.DB) *userPostgres {
	return &userPostgres{db: db}
}

// Models はマイグレーション対象のモデルです。
func Models() []any {
	return []any{&entity.User{}}
}

// Create はユーザーを追加します。メール重複は usecase.ErrEmailAlreadyExists です。
func (r *userPostgres) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicate(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userPostgres) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
