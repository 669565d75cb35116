package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"biomed-system/pkg/constants"
	apperrors "biomed-system/pkg/errors"
	"biomed-system/pkg/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestEquipmentImporter_Import(t *testing.T) {
	existing := operationalEquipment("eq-1")
	existing.SerialNumber = "SN-OLD"
	eqRepo := newFakeEquipmentRepo(existing)
	tx := &fakeTxManager{}
	importer := NewEquipmentImporter(tx, eqRepo, eventbus.New(zap.NewNop()), zap.NewNop())

	buf := workbook(t, [][]interface{}{
		{"Inventario de equipos biomédicos"},
		{},
		{"Nombre", "Marca", "Modelo", "N° Serie", "Ubicación", "Inventario", "Último mantenimiento", "Próximo mantenimiento"},
		{"Monitor", "Mindray", "iMEC10", "SN-NEW", "UCI - Cama 1", "INV-7", "2025-01-10", "2025-07-10"},
		{"Monitor renombrado", "Mindray", "iMEC12", "SN-OLD", "", "", "", "10/07/2025"},
		{"Sin serie", "", "", "", "", "", "", "2025-07-10"},
		{"Sin fecha", "", "", "SN-X", "", "", "", "pronto"},
		{"Duplicado", "", "", "SN-NEW", "", "", "", "2025-07-10"},
		{"", "", "", "", "", "", "", ""},
		{"Serial Excel", "", "", "SN-SER", "", "", "", 45848},
	})

	result, err := importer.Import(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", result.Sheet)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 3, result.Skipped)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, 6, result.Errors[0].Row)
	assert.Contains(t, result.Errors[1].Message, "next maintenance date")
	assert.Contains(t, result.Errors[2].Message, "row 4")
	assert.Equal(t, 1, tx.calls)

	all, _ := eqRepo.ListAll(context.Background())
	bySerial := map[string]string{}
	for _, eq := range all {
		bySerial[eq.SerialNumber] = eq.Name
		if eq.SerialNumber == "SN-NEW" {
			assert.Equal(t, "2025-01-10", eq.LastMaintenanceDate.String)
			assert.Equal(t, "2025-07-10", eq.NextMaintenanceDate)
			assert.Equal(t, constants.EquipmentOperational, eq.Status)
		}
		if eq.SerialNumber == "SN-SER" {
			assert.Equal(t, "2025-07-10", eq.NextMaintenanceDate)
		}
	}
	assert.Equal(t, "Monitor renombrado", bySerial["SN-OLD"])
	assert.Len(t, all, 3)
}

func TestEquipmentImporter_RejectsUnusableFiles(t *testing.T) {
	importer := NewEquipmentImporter(&fakeTxManager{}, newFakeEquipmentRepo(), eventbus.New(zap.NewNop()), zap.NewNop())
	var invalid *apperrors.InvalidInputError

	_, err := importer.Import(context.Background(), strings.NewReader("not a workbook"))
	assert.ErrorAs(t, err, &invalid)

	buf := workbook(t, [][]interface{}{{"Columna", "Otra"}, {"a", "b"}})
	_, err = importer.Import(context.Background(), buf)
	assert.ErrorAs(t, err, &invalid)
}

func TestNormalizeImportDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"2025-03-01", "2025-03-01", true},
		{"01/03/2025", "2025-03-01", true},
		{"45717", "2025-03-01", true},
		{"", "", false},
		{"marzo", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizeImportDate(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
