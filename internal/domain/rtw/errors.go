package rtw

import "errors"

var (
	ErrCheckNotFound = errors.New("check not found")
	ErrInvalidDates  = errors.New("employment end date and deletion due date must be set together")
)
