package ports

import (
	"context"

	"github.com/bnema/diva/internal/domain"
)

type CommandRepository interface {
	Load(ctx context.Context) (domain.CommandTable, error)
}
