// Package reports generates and parses the .docx lead reports used by the
// admin dashboard export/import flow.
package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/domain/analytics"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/fumiama/go-docx"
)

// ReportStats is the aggregate header block printed at the top of the export.
type ReportStats struct {
	TotalVisitors      int
	TotalRegistrations int
	TotalEvents        int
	TotalPageViews     int
	GeneratedAt        time.Time
}

// WordReportWriter builds .docx reports of captured leads.
type WordReportWriter struct {
	logger *logging.ChanneledLogger
}

// NewWordReportWriter creates a new report writer.
func NewWordReportWriter(logger *logging.ChanneledLogger) *WordReportWriter {
	return &WordReportWriter{logger: logger}
}

// BuildRegistrationsReport renders the stats header plus one block per
// registration and returns the finished document bytes.
func (w *WordReportWriter) BuildRegistrationsReport(stats ReportStats, registrations []*analytics.RegistrationWithVisitor) ([]byte, error) {
	start := time.Now()
	doc := docx.New().WithDefaultTheme()

	title := doc.AddParagraph()
	title.AddText("Fórmula Engajamento — Relatório de Leads").Size("32").Bold()

	generated := doc.AddParagraph()
	generated.AddText("Gerado em " + stats.GeneratedAt.Format("02/01/2006 15:04")).Size("20").Color("808080")

	doc.AddParagraph() // spacer

	summary := doc.AddParagraph()
	summary.AddText("Resumo").Size("26").Bold()
	for _, line := range []string{
		fmt.Sprintf("Visitantes: %d", stats.TotalVisitors),
		fmt.Sprintf("Registros: %d", stats.TotalRegistrations),
		fmt.Sprintf("Eventos: %d", stats.TotalEvents),
		fmt.Sprintf("Visualizações de página: %d", stats.TotalPageViews),
	} {
		doc.AddParagraph().AddText(line).Size("22")
	}

	doc.AddParagraph()
	heading := doc.AddParagraph()
	heading.AddText(fmt.Sprintf("Registros (%d)", len(registrations))).Size("26").Bold()

	for i, reg := range registrations {
		doc.AddParagraph()
		entry := doc.AddParagraph()
		entry.AddText(fmt.Sprintf("%d. %s", i+1, stringOrDash(reg.Name))).Size("24").Bold()

		doc.AddParagraph().AddText("Email: " + stringOrDash(reg.Email)).Size("22")
		doc.AddParagraph().AddText("Telefone: " + stringOrDash(reg.Phone)).Size("22")
		doc.AddParagraph().AddText("Registrado em: " + reg.RegisteredAt.Format("02/01/2006 15:04")).Size("22")
		doc.AddParagraph().AddText("Localização: " + locationLine(reg.City, reg.Country)).Size("22")
		doc.AddParagraph().AddText("Dispositivo: " + stringOrDash(reg.DeviceType)).Size("22")
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		w.logger.System().Error("Failed to render registrations report", "error", err.Error())
		return nil, fmt.Errorf("failed to render registrations report: %w", err)
	}

	w.logger.System().Info("Registrations report generated",
		"registrations", len(registrations),
		"bytes", buf.Len(),
		"duration", time.Since(start))
	return buf.Bytes(), nil
}

func stringOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func locationLine(city, country *string) string {
	switch {
	case city != nil && country != nil:
		return *city + ", " + *country
	case city != nil:
		return *city
	case country != nil:
		return *country
	default:
		return "-"
	}
}
