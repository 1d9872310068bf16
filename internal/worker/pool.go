package worker

import (
	"context"

	"tiendapos/internal/dto"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	JobSessionAccrual = "session_accrual"
	JobReceipt        = "receipt"
)

// SessionAccrualJob carries the post-commit numbers of one sale into the
// cashier's open work session and bonus ledger.
type SessionAccrualJob struct {
	UserID        uuid.UUID
	BranchID      uuid.UUID
	SaleTotal     decimal.Decimal
	SaleBonus     decimal.Decimal
	PaymentMethod string
}

// ReceiptJob renders and optionally emails the ticket for a committed sale.
type ReceiptJob struct {
	Receipt       *dto.Receipt
	CustomerEmail *string
}

// Job is the generic envelope for all async tasks. Exactly one payload
// field is set, matching Type.
type Job struct {
	Type           string
	SessionAccrual *SessionAccrualJob
	Receipt        *ReceiptJob
}

// SessionAccumulator folds a sale's totals into the cashier's open work
// session. Implemented by service.SessionService; the interface lives here
// to keep the dependency pointing service -> worker only.
type SessionAccumulator interface {
	UpdateOnSale(ctx context.Context, userID, branchID uuid.UUID, total, bonus decimal.Decimal, paymentMethod string) error
}

// BonusLedger increments the per-branch accrued bonification of a cashier.
type BonusLedger interface {
	AddBonus(ctx context.Context, branchID, userID uuid.UUID, amount decimal.Decimal) error
}

// Handlers groups everything the pool needs to process jobs.
type Handlers struct {
	Sessions SessionAccumulator
	Bonuses  BonusLedger
	Receipts *ReceiptWorker
}

// Dispatcher enqueues async jobs into an in-process buffered channel.
// The worker pool consumes it; enqueue never blocks the request path —
// when the buffer is full the job is dropped and logged.
type Dispatcher struct {
	jobs chan Job
}

func NewDispatcher(buffer int) *Dispatcher {
	if buffer < 1 {
		buffer = 256
	}
	return &Dispatcher{jobs: make(chan Job, buffer)}
}

func (d *Dispatcher) EnqueueSessionAccrual(j SessionAccrualJob) {
	d.enqueue(Job{Type: JobSessionAccrual, SessionAccrual: &j})
}

func (d *Dispatcher) EnqueueReceipt(j ReceiptJob) {
	d.enqueue(Job{Type: JobReceipt, Receipt: &j})
}

func (d *Dispatcher) enqueue(job Job) {
	select {
	case d.jobs <- job:
	default:
		log.Warn().Str("type", job.Type).Msg("job queue full, dropping job")
	}
}

// Pending reports how many jobs are buffered. Used by the health endpoint.
func (d *Dispatcher) Pending() int { return len(d.jobs) }

// StartWorkerPool launches numWorkers goroutines consuming the dispatcher
// channel. Each goroutine blocks on the channel — zero CPU when idle.
func StartWorkerPool(ctx context.Context, d *Dispatcher, h Handlers, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, d, h, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, d *Dispatcher, h Handlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		case job := <-d.jobs:
			processJob(ctx, h, job)
		}
	}
}

func processJob(ctx context.Context, h Handlers, job Job) {
	switch job.Type {
	case JobSessionAccrual:
		if job.SessionAccrual == nil {
			log.Error().Str("type", job.Type).Msg("job without payload")
			return
		}
		processSessionAccrual(ctx, h, *job.SessionAccrual)
	case JobReceipt:
		if job.Receipt == nil || job.Receipt.Receipt == nil {
			log.Error().Str("type", job.Type).Msg("job without payload")
			return
		}
		h.Receipts.Process(ctx, *job.Receipt)
	default:
		log.Error().Str("type", job.Type).Msg("unknown job type")
	}
}

func processSessionAccrual(ctx context.Context, h Handlers, j SessionAccrualJob) {
	if h.Sessions != nil {
		if err := h.Sessions.UpdateOnSale(ctx, j.UserID, j.BranchID, j.SaleTotal, j.SaleBonus, j.PaymentMethod); err != nil {
			log.Error().Err(err).
				Str("user_id", j.UserID.String()).
				Str("branch_id", j.BranchID.String()).
				Msg("session accrual failed")
		}
	}
	if h.Bonuses != nil && j.SaleBonus.IsPositive() {
		if err := h.Bonuses.AddBonus(ctx, j.BranchID, j.UserID, j.SaleBonus); err != nil {
			log.Error().Err(err).
				Str("user_id", j.UserID.String()).
				Msg("bonus accrual failed")
		}
	}
}
