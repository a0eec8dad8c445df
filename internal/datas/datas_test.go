package datas

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AcceptsBothFormats(t *testing.T) {
	d, err := Parse("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, Data("2024-03-05"), d)

	d, err = Parse("05/03/2024")
	require.NoError(t, err)
	assert.Equal(t, Data("2024-03-05"), d)

	d, err = Parse("2024-03-05T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, Data("2024-03-05"), d)

	d, err = Parse("  ")
	require.NoError(t, err)
	assert.True(t, d.Vazia())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("31/31/2024")
	assert.ErrorIs(t, err, ErrDataInvalida)
	_, err = Parse("ontem")
	assert.ErrorIs(t, err, ErrDataInvalida)
}

func TestDeSerialPlanilha(t *testing.T) {
	assert.Equal(t, Data("2024-01-01"), DeSerialPlanilha(45292))
	assert.Equal(t, Data("1970-01-01"), DeSerialPlanilha(25569))
}

func TestDiasEntre(t *testing.T) {
	assert.Equal(t, 4, DiasEntre("2024-01-01", "2024-01-05"))
	assert.Equal(t, -4, DiasEntre("2024-01-05", "2024-01-01"))
	assert.Equal(t, 60, DiasEntre("2024-01-01", "2024-03-01"))
}

func TestFormatBR(t *testing.T) {
	assert.Equal(t, "05/03/2024", Data("2024-03-05").FormatBR())
	assert.Equal(t, "", Data("").FormatBR())
}

func TestScanAndValue(t *testing.T) {
	var d Data
	require.NoError(t, d.Scan(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Data("2024-02-29"), d)

	require.NoError(t, d.Scan([]byte("2024-01-10")))
	assert.Equal(t, Data("2024-01-10"), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.Vazia())

	v, err := Data("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Data("2024-01-10").Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", v)

	assert.Error(t, d.Scan(42))
}
