package match

import "github.com/go-faster/errors"

var (
	ErrInvalidParam  = errors.New("the param is invalid")
	ErrInternal      = errors.New("internal server error")
	ErrShutdown      = errors.New("exchange is shutting down")
	ErrNotFound      = errors.New("not found")
	ErrSequenceGap   = errors.New("book log sequence gap")
	ErrUnknownSymbol = errors.New("unknown symbol")
)
