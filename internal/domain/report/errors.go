package report

import "errors"

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrResultNotFound  = errors.New("result not found")
	ErrPaymentRequired = errors.New("report is locked until payment is confirmed")
)
