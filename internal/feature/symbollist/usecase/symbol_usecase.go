// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"strings"

	"wing_backend/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for the instrument master.
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	FindByCode(ctx context.Context, code string) (*entity.Symbol, error)
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns all active symbols from the repository.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// ActiveCodes returns the codes the ingest job should refresh.
func (u *SymbolUsecase) ActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// NameByCode returns the display name for code, or "" when the code is unknown.
func (u *SymbolUsecase) NameByCode(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", nil
	}
	s, err := u.repo.FindByCode(ctx, code)
	if err != nil || s == nil {
		return "", err
	}
	return s.Name, nil
}
