package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DineCast/internal/domain/models"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndLookup(t *testing.T) {
	path := writeTable(t, `{
		"products": {
			"Burgers": {"category": "mains", "sellPrice": 12.99, "costPrice": 5.50, "profitPerUnit": 7.49, "marginPercent": 57.7},
			"Fries": {"category": "sides", "sellPrice": 3.49, "costPrice": 0.80}
		}
	}`)

	table, err := Load(path)
	require.NoError(t, err)

	burgers, err := table.Lookup("Burgers")
	require.NoError(t, err)
	assert.Equal(t, 12.99, burgers.SellPrice)
	assert.Equal(t, 7.49, burgers.ProfitPerUnit)

	// Derived fields are filled when absent.
	fries, err := table.Lookup("Fries")
	require.NoError(t, err)
	assert.InDelta(t, 2.69, fries.ProfitPerUnit, 1e-9)
	assert.InDelta(t, 2.69/3.49*100, fries.MarginPercent, 1e-9)

	assert.Len(t, table.Products(), 2)
}

func TestLookupMissingProduct(t *testing.T) {
	path := writeTable(t, `{"products": {"Burgers": {"sellPrice": 12.99, "costPrice": 5.50}}}`)
	table, err := Load(path)
	require.NoError(t, err)

	_, err = table.Lookup("Pizza")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrPricingMissing)
}

func TestLoadRejectsBadTable(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := writeTable(t, `{"products": {}}`)
	_, err = Load(path)
	require.Error(t, err)

	path = writeTable(t, `{"products": {"Burgers": {"sellPrice": 0, "costPrice": 5.50}}}`)
	_, err = Load(path)
	require.Error(t, err)
}
