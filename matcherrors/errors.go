package matcherrors

import "errors"

// Matchmaking sentinel errors. Used by matchmaking and ws to avoid circular
// imports.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameFinished   = errors.New("game finished")
	ErrInvalidToken   = errors.New("invalid rejoin token")
	ErrNoActiveGame   = errors.New("no active game for this user")
	ErrSeatNotFound   = errors.New("seat not found")
	ErrUnknownVariant = errors.New("unknown variant")
)
