package worker

// receipt_worker.go
// Renders the PDF ticket for a committed sale and, when the sale carries a
// customer email, sends the ticket as an attachment via SMTP.

import (
	"context"
	"fmt"

	"tiendapos/internal/infra"

	"github.com/rs/zerolog/log"
)

type ReceiptWorker struct {
	mailer      *infra.Mailer
	storagePath string
}

func NewReceiptWorker(mailer *infra.Mailer, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{mailer: mailer, storagePath: storagePath}
}

// Process renders the PDF and emails it if a recipient is present. Both
// steps are best-effort; failures are logged and never retried here.
func (w *ReceiptWorker) Process(_ context.Context, job ReceiptJob) {
	pdfPath, err := infra.GenerateReceiptPDF(job.Receipt, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", job.Receipt.SaleID).Msg("receipt_worker: pdf generation failed")
		return
	}
	log.Info().Str("sale_id", job.Receipt.SaleID).Str("path", pdfPath).Msg("receipt_worker: pdf generated")

	if job.CustomerEmail == nil || *job.CustomerEmail == "" {
		return
	}
	if w.mailer == nil {
		log.Warn().Str("sale_id", job.Receipt.SaleID).Msg("receipt_worker: no mailer configured, skipping email")
		return
	}

	subject := fmt.Sprintf("Tu comprobante de compra — %s", job.Receipt.Business)
	body := fmt.Sprintf("Hola,\n\nAdjuntamos el comprobante de tu compra en %s por un total de $%s.\n\n¡Gracias por tu compra!",
		job.Receipt.Business, job.Receipt.Total.StringFixed(2))

	if err := w.mailer.SendReceipt(*job.CustomerEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", *job.CustomerEmail).Msg("receipt_worker: failed to send email")
		return
	}
	log.Info().Str("to", *job.CustomerEmail).Str("sale_id", job.Receipt.SaleID).Msg("receipt_worker: receipt emailed")
}
