package evaluation

import "errors"

// ErrInvalidArgument is returned for an unknown status bucket or a malformed request.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrBatchNotFound indicates the batch expired, was discarded or belongs to someone else.
var ErrBatchNotFound = errors.New("batch not found")

// ErrRecordNotFound indicates the record id is outside the batch.
var ErrRecordNotFound = errors.New("record not found")
