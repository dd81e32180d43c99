package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
// For transactions this means the idempotency key was already committed.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates that the source account balance cannot cover the amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrSelfTransfer indicates a transfer where source and destination are the same user.
var ErrSelfTransfer = errors.New("cannot transfer to the same account")

// ErrLockTimeout indicates a bounded lock wait expired. The operation was rolled back and
// may be safely resubmitted with the same idempotency key.
var ErrLockTimeout = errors.New("lock wait timed out, retry the operation")

// ErrInternal indicates an unexpected failure inside a unit of work.
var ErrInternal = errors.New("internal error")
