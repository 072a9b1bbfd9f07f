package infra

// pdf.go: Liquidación summary PDF using go-pdf/fpdf.
// A4 portrait with:
//   - Carga header (file name, id, generation timestamp)
//   - Per-worker totals table
//   - Per-day totals table
//   - Grand total

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"liquidacion/internal/dto"
	"liquidacion/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// LiquidacionPDF is the data printed on a liquidación summary.
type LiquidacionPDF struct {
	Carga         *model.Carga
	PorTrabajador []dto.TotalTrabajador
	PorFecha      []dto.TotalFecha
	GeneradoEn    time.Time
}

// EscribirLiquidacionPDF renders the summary into w.
func EscribirLiquidacionPDF(w io.Writer, datos LiquidacionPDF) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, tr("Liquidación de cosecha"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr("Archivo: "+datos.Carga.NombreArchivo), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Carga: "+datos.Carga.ID.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Generado: "+datos.GeneradoEn.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Per worker ────────────────────────────────────────────────────────────
	colID := contentW * 0.2
	colNombre := contentW * 0.5
	colMonto := contentW * 0.3

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Totales por trabajador", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colID, 6, "ID", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colNombre, 6, "Nombre", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colMonto, 6, "Monto", "B", 1, "R", false, 0, "")

	total := decimal.Zero
	pdf.SetFont("Helvetica", "", 9)
	for _, t := range datos.PorTrabajador {
		pdf.CellFormat(colID, 5, fmt.Sprintf("%d", t.IDTrab), "", 0, "L", false, 0, "")
		pdf.CellFormat(colNombre, 5, tr(t.NombreTrab), "", 0, "L", false, 0, "")
		pdf.CellFormat(colMonto, 5, "$"+t.Monto.StringFixed(2), "", 1, "R", false, 0, "")
		total = total.Add(t.Monto)
	}
	pdf.Ln(4)

	// ── Per day ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Totales por fecha", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colID+colNombre, 6, "Fecha", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colMonto, 6, "Monto", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, f := range datos.PorFecha {
		pdf.CellFormat(colID+colNombre, 5, f.Fecha, "", 0, "L", false, 0, "")
		pdf.CellFormat(colMonto, 5, "$"+f.Monto.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// ── Total ─────────────────────────────────────────────────────────────────
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(colID+colNombre, 7, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(colMonto, 7, "$"+total.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render: %w", err)
	}
	return nil
}

// GenerarLiquidacionPDF writes the summary to storagePath/liquidacion_{carga}.pdf
// (the directory is created if needed) and returns the file path.
func GenerarLiquidacionPDF(datos LiquidacionPDF, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("liquidacion_%s.pdf", datos.Carga.ID))

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("pdf: create file: %w", err)
	}
	if err := EscribirLiquidacionPDF(f, datos); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
