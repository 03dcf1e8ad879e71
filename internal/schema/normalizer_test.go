package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursyahid/dapur-ledger/internal/model"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name   string
		cell   string
		want   Field
		wantOK bool
	}{
		{"english name", "Item Name", FieldName, true},
		{"indonesian name", "Nama Barang", FieldName, true},
		{"mixed case with padding", "  HARGA jual  ", FieldSellPrice, true},
		{"collapsed whitespace", "harga   modal", FieldCostPrice, true},
		{"unit alias", "Satuan", FieldUnit, true},
		{"supplier alias", "UD", FieldSupplierName, true},
		{"quantity alias", "Jumlah", FieldQuantity, true},
		{"unrecognized", "Keterangan", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeHeader(tt.cell)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDetectHeader(t *testing.T) {
	t.Run("header below a banner row", func(t *testing.T) {
		grid := [][]string{
			{"", "", ""},
			{"Nama Barang", "Satuan", "Harga Jual"},
			{"Tempe", "pcs", "5000"},
		}

		idx, columns, err := DetectHeader(grid)
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
		assert.Equal(t, FieldName, columns[0])
		assert.Equal(t, FieldUnit, columns[1])
		assert.Equal(t, FieldSellPrice, columns[2])
	})

	t.Run("header on the first row", func(t *testing.T) {
		grid := [][]string{
			{"Item", "Qty"},
			{"Beras", "3"},
		}

		idx, columns, err := DetectHeader(grid)
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
		assert.Len(t, columns, 2)
	})

	t.Run("decorated name header still detected", func(t *testing.T) {
		grid := [][]string{
			{"Nama Barang (wajib)", "Satuan"},
		}

		idx, _, err := DetectHeader(grid)
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	})

	t.Run("no header within scan limit", func(t *testing.T) {
		grid := [][]string{
			{"a"}, {"b"}, {"c"}, {"d"}, {"e"},
			{"Nama Barang"},
		}

		_, _, err := DetectHeader(grid)
		assert.ErrorIs(t, err, ErrNoHeader)
	})

	t.Run("empty grid", func(t *testing.T) {
		_, _, err := DetectHeader(nil)
		assert.ErrorIs(t, err, ErrNoHeader)
	})
}

func TestParseGrid(t *testing.T) {
	t.Run("full parse with banner and blank rows", func(t *testing.T) {
		grid := [][]string{
			{"", "", ""},
			{"Nama Barang", "Satuan", "Harga Jual", "Harga Modal", "UD", "Jumlah"},
			{"Tempe", "pcs", "5000", "4000", "Sumber Makmur", "10"},
			{"", "", "", "", "", ""},
			{"Tahu", "pcs", "Rp 3.500", "3000", "", "2"},
		}

		rows, err := ParseGrid(grid)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, 3, rows[0].RowIndex)
		assert.Equal(t, "Tempe", rows[0].Name)
		assert.Equal(t, "pcs", rows[0].Unit)
		assert.Equal(t, 5000.0, rows[0].SellPrice)
		assert.Equal(t, 4000.0, rows[0].CostPrice)
		assert.Equal(t, "Sumber Makmur", rows[0].SupplierName)
		assert.Equal(t, 10.0, rows[0].Quantity)

		assert.Equal(t, 5, rows[1].RowIndex)
		assert.Equal(t, "Tahu", rows[1].Name)
		assert.Equal(t, 3.5, rows[1].SellPrice)
	})

	t.Run("rows shorter than the header", func(t *testing.T) {
		grid := [][]string{
			{"Nama Barang", "Satuan", "Harga Jual"},
			{"Tempe"},
		}

		rows, err := ParseGrid(grid)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Tempe", rows[0].Name)
		assert.Zero(t, rows[0].SellPrice)
	})

	t.Run("unmapped columns ignored", func(t *testing.T) {
		grid := [][]string{
			{"Nama Barang", "Keterangan", "Harga Jual"},
			{"Tempe", "catatan bebas", "5000"},
		}

		rows, err := ParseGrid(grid)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 5000.0, rows[0].SellPrice)
	})

	t.Run("no data rows", func(t *testing.T) {
		grid := [][]string{
			{"Nama Barang", "Harga Jual"},
			{"", ""},
		}

		_, err := ParseGrid(grid)
		assert.ErrorIs(t, err, ErrNoRows)
	})

	t.Run("missing header is fatal", func(t *testing.T) {
		grid := [][]string{
			{"1", "2"},
			{"3", "4"},
		}

		_, err := ParseGrid(grid)
		assert.ErrorIs(t, err, ErrNoHeader)
	})
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"5000", 5000},
		{"Rp 3.500", 3.5},
		{"1,250.75", 1250.75},
		{"  12  ", 12},
		{"-4", -4},
		{"abc", 0},
		{"", 0},
		{"Rp", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceNumber(tt.in))
		})
	}
}

func TestImportRowIsBlank(t *testing.T) {
	assert.True(t, model.ImportRow{RowIndex: 4}.IsBlank())
	assert.True(t, model.ImportRow{RowIndex: 4, Name: "   "}.IsBlank())
	assert.False(t, model.ImportRow{RowIndex: 4, Quantity: 1}.IsBlank())
	assert.False(t, model.ImportRow{RowIndex: 4, Name: "Tempe"}.IsBlank())
}
