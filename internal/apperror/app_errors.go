package apperror

import "errors"

var (
	ErrGameFinished   = errors.New("game is already finished")
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrInvalidCell    = errors.New("invalid cell index")
	ErrStepOutOfRange = errors.New("step is out of range")
	ErrGameNotFound   = errors.New("game not found")
	ErrEmptyKey       = errors.New("storage key is empty")
)
