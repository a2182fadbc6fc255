package history

import (
	"context"
	"fmt"

	"github.com/prasetyowira/qrgen/constant"
	domain "github.com/prasetyowira/qrgen/domain/history"
	"github.com/prasetyowira/qrgen/infrastructure/db"
)

// Open returns the store for backend at path and a function releasing it.
func Open(ctx context.Context, backend, path string) (domain.Store, func() error, error) {
	switch backend {
	case constant.BackendJSON, "":
		return NewJSONFileStore(path), func() error { return nil }, nil
	case constant.BackendSQLite:
		repo, err := db.NewHistoryRepository(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown history backend %q", backend)
}
