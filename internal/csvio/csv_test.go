package csvio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/empresia/walletadmin/internal/tenantstore/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCustomersAliasHeaders(t *testing.T) {
	input := strings.Join([]string{
		"Nombre,Fecha de nacimiento,Telefono,Correo",
		"Ana,1990-01-01,+54 11 5555-1000,ana@acme.com",
		"Bruno,1985-06-20,+54 11 5555-2000,bruno@acme.com",
	}, "\n")

	rows, skipped, err := DecodeCustomers(strings.NewReader(input))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ana", rows[0].Name)
	assert.Equal(t, "1990-01-01", rows[0].BirthDate)
	assert.Equal(t, "+54 11 5555-1000", rows[0].Phone)
	assert.Equal(t, "bruno@acme.com", rows[1].Email)
}

func TestDecodeCustomersLowercaseHeaders(t *testing.T) {
	input := strings.Join([]string{
		"nombre,fechaNacimiento,celular,email",
		"Carla,1992-02-02,+54 11 5555-3000,carla@acme.com",
	}, "\n")

	rows, skipped, err := DecodeCustomers(strings.NewReader(input))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, "Carla", rows[0].Name)
	assert.Equal(t, "1992-02-02", rows[0].BirthDate)
}

func TestDecodeCustomersDropsRowsMissingNameOrEmail(t *testing.T) {
	input := strings.Join([]string{
		"nombre,email",
		"Ana,ana@acme.com",
		",sin-nombre@acme.com",
		"Sin Email,",
	}, "\n")

	rows, skipped, err := DecodeCustomers(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].Name)
}

func TestDecodeCustomersIgnoresUnknownColumns(t *testing.T) {
	input := strings.Join([]string{
		"id,nombre,email,notas",
		"x1,Ana,ana@acme.com,vip",
	}, "\n")

	rows, skipped, err := DecodeCustomers(strings.NewReader(input))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].Name)
	assert.Equal(t, "ana@acme.com", rows[0].Email)
}

func TestDecodeCustomersEmptyInput(t *testing.T) {
	rows, skipped, err := DecodeCustomers(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Empty(t, rows)
}

func TestEncodeCustomersFixedColumnOrder(t *testing.T) {
	lastUsed := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	customers := []domain.Customer{
		{
			ID:         "abc123",
			Name:       "Ana",
			BirthDate:  "1990-01-01",
			Phone:      "+54 11 5555-1000",
			Email:      "ana@acme.com",
			CreatedAt:  time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
			LastUsedAt: &lastUsed,
		},
		{
			ID:        "def456",
			Name:      "Bruno",
			Email:     "bruno@acme.com",
			CreatedAt: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeCustomers(&buf, customers))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,nombre,fechaNacimiento,celular,email,creadoEl,ultimoUso", lines[0])
	assert.Contains(t, lines[1], "abc123,Ana,1990-01-01,+54 11 5555-1000,ana@acme.com")
	assert.Contains(t, lines[1], "2026-03-10T09:00:00Z")
	// No last-use leaves the final column empty.
	assert.True(t, strings.HasSuffix(lines[2], ","))
}
