package catalog

import "errors"

var (
	ErrTestNotFound      = errors.New("test not found")
	ErrTestCodeTaken     = errors.New("a test with this code already exists")
	ErrUnknownTestsInSet = errors.New("one or more test ids do not exist")
)
