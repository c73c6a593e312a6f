package usecase

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrNetwork          = errors.New("upstream unreachable")
	ErrAPI              = errors.New("upstream api error")
	ErrParse            = errors.New("upstream payload missing required fields")
	ErrDelivery         = errors.New("message delivery failed")
)
