package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rl1809/stock-assistant/internal/config"
	"github.com/rl1809/stock-assistant/internal/core/domain"
)

func TestNewParser_TemplateOnly(t *testing.T) {
	chain, err := newParser(context.Background(), config.InterpreterConfig{Provider: config.ProviderNone}, domain.DefaultCatalog(), zap.NewNop())
	require.NoError(t, err)

	res, err := chain.Parse(context.Background(), "add 5 shirts")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceTemplate, res.Source)
}

func TestNewParser_OpenAIRequiresKey(t *testing.T) {
	_, err := newParser(context.Background(), config.InterpreterConfig{Provider: config.ProviderOpenAI}, domain.DefaultCatalog(), zap.NewNop())
	assert.Error(t, err)
}

func TestNewParser_MissingCapabilityFile(t *testing.T) {
	_, err := newParser(context.Background(), config.InterpreterConfig{
		Provider:       config.ProviderOpenAI,
		APIKey:         "sk-test",
		CapabilityPath: filepath.Join(t.TempDir(), "missing.yaml"),
	}, domain.DefaultCatalog(), zap.NewNop())
	assert.Error(t, err)
}

func TestNewApp_InMemory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Redis.Addr = "unreachable:1"
	cfg.Journal.MySQLDSN = "unused"

	a, err := newApp(context.Background(), cfg, zap.NewNop(), false)
	require.NoError(t, err)
	defer a.shutdown()

	counts, err := a.service.Inventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{domain.Shirts: 20, domain.Pants: 15}, counts)
}

func TestAskCommand(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("INTERPRETER_PROVIDER", "")
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"ask", "--config", "missing.yaml", "add 2 shirts and remove 1 pant"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "Got it! I've added 2 t-shirts to the inventory and I've removed 1 pants from the inventory. Current inventory: T-shirts: 22, Pants: 14\n", out.String())
}
