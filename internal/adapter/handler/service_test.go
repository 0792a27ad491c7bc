package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rl1809/stock-assistant/internal/adapter/storage"
	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/core/parser"
	"github.com/rl1809/stock-assistant/internal/core/service"
)

func newTestService(t *testing.T) *service.InventoryService {
	t.Helper()
	catalog := domain.DefaultCatalog()
	store, err := storage.NewMemoryStore(catalog, domain.Counts{domain.Shirts: 10, domain.Pants: 5})
	require.NoError(t, err)

	chain := parser.NewChain(nil, parser.NewTemplateStage(catalog))
	svc := service.NewInventoryService(chain, store, catalog, storage.NewMemoryIdempotency(time.Hour), 16, nil)
	t.Cleanup(svc.Close)
	return svc
}
