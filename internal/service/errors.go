package service

import (
	"errors"
	"fmt"
)

// Integrity errors are detected during the pre-transaction verification
// pass; nothing has been written when they surface. They are recoverable
// by the caller (fix input, reload, retry).
var (
	ErrPresentationMismatch = errors.New("la presentación no pertenece al producto indicado")
	ErrPresentationMissing  = errors.New("una presentación ya no existe, recargue el catálogo")
	ErrUnitsMismatch        = errors.New("las unidades de la presentación cambiaron, recargue el catálogo")
	ErrBasePresentation     = errors.New("la presentación base no puede modificarse ni eliminarse")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrBranchNotFound       = errors.New("sucursal no encontrada")
	ErrPurchaseNotFound     = errors.New("compra no encontrada")
	ErrProductNotFound      = errors.New("producto no encontrado")
)

// ErrReceiveNotConfirmed signals that the receive transaction committed but
// the follow-up read did not observe the received status. The caller should
// check the purchase state before retrying.
var ErrReceiveNotConfirmed = errors.New("la recepción no quedó registrada, verifique el estado de la compra")

// StockError reports an insufficient-stock rejection, naming the product
// and the available vs. required base units.
type StockError struct {
	Product   string
	Available int
	Required  int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: disponible %d, requerido %d",
		e.Product, e.Available, e.Required)
}

// StorageError wraps a failure surfaced by the store around an atomic
// transaction. The transaction guarantees no partial writes survived.
type StorageError struct{ Err error }

func (e *StorageError) Error() string {
	return "problema de integridad de datos, recargue e intente nuevamente"
}

func (e *StorageError) Unwrap() error { return e.Err }

// PurchaseStateError reports a state-machine violation (e.g. receiving a
// purchase that is already received or cancelled).
type PurchaseStateError struct {
	Status string
	Action string
}

func (e *PurchaseStateError) Error() string {
	return fmt.Sprintf("la compra no puede %s desde el estado %q", e.Action, e.Status)
}
