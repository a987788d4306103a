package engine

import "errors"

var (
	// ErrDuplicatePosition is returned by Open while a position for the
	// symbol is still open. The existing position is left untouched.
	ErrDuplicatePosition = errors.New("position already open for symbol")

	// ErrUnknownSymbol is returned by Update when no position has ever
	// been opened for the symbol this session.
	ErrUnknownSymbol = errors.New("no position tracked for symbol")

	// ErrInvalidState is returned by ForceClose when there is no open
	// position to close. Repeated EOD sweeps hit this and treat it as a
	// no-op; the stored exit fields are never altered.
	ErrInvalidState = errors.New("no open position for symbol")
)
