package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productJSON = `{"id":1,"kode_barang":"SA-1","nama_komponen":"Sensor A","gambar":null,"satuan":"pcs","jumlah":2,"lokasi_simpan":"Rak A","stok_min":5,"stok_max":20,"created_at":"2024-05-01T10:00:00.000000Z","updated_at":"2024-05-02T10:00:00.000000Z"}`

func TestDecodeProducts(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"bare array", `[` + productJSON + `]`},
		{"data wrapper", `{"success":true,"data":[` + productJSON + `]}`},
		{"products wrapper", `{"products":[` + productJSON + `]}`},
		{"data not a list falls through to products", `{"data":{"total":1},"products":[` + productJSON + `]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ps, err := DecodeProducts([]byte(tc.body))
			require.NoError(t, err)
			require.Len(t, ps, 1)
			assert.Equal(t, "Sensor A", ps[0].Name)
			assert.Equal(t, "SA-1", ps[0].Code)
			assert.Equal(t, 2, ps[0].Quantity)
			assert.Nil(t, ps[0].Image)
		})
	}
}

func TestDecodeProductsFailsClosed(t *testing.T) {
	for _, body := range []string{`{"items":[]}`, `"hello"`, `42`, ``, `{"data":"nope"}`} {
		ps, err := DecodeProducts([]byte(body))
		var derr *DecodeError
		assert.ErrorAs(t, err, &derr, "body %q", body)
		assert.NotNil(t, ps)
		assert.Empty(t, ps)
	}
}

func TestDecodeProductsEmpty(t *testing.T) {
	ps, err := DecodeProducts([]byte(`{"data":[]}`))
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestDecodeRecord(t *testing.T) {
	wrapped := `{"success":true,"data":{"id":1715000000000,"nama_pengebon":"Budi","purpose":"maintenance","items":[{"product_id":1,"product_name":"Sensor A","kode_barang":"SA-1","quantity":2,"satuan":"pcs"}],"date":"2024-05-06T10:00:00.000Z","created_at":"2024-05-06T10:00:01.000Z"},"message":"ok"}`

	rec, err := DecodeRecord([]byte(wrapped))
	require.NoError(t, err)
	assert.Equal(t, int64(1715000000000), rec.ID)
	assert.Equal(t, "Budi", rec.Requester)
	require.Len(t, rec.Items, 1)
	assert.Equal(t, 2, rec.Items[0].Quantity)
	require.NotNil(t, rec.CreatedAt)

	bare := `{"id":9,"nama_pengebon":"Sari","purpose":"lab","items":[]}`
	rec, err = DecodeRecord([]byte(bare))
	require.NoError(t, err)
	assert.Equal(t, int64(9), rec.ID)

	_, err = DecodeRecord([]byte(`{"message":"stored"}`))
	var derr *DecodeError
	assert.ErrorAs(t, err, &derr)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Data tidak lengkap", errorMessage([]byte(`{"success":false,"message":"Data tidak lengkap"}`)))
	assert.Equal(t, "Bad Gateway", errorMessage([]byte("Bad Gateway\n")))
}
