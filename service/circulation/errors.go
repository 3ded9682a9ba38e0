package circulation

import "errors"

// Every rejected operation names the violated rule: Kind drives the HTTP
// mapping, Code and the message tell the caller which invariant tripped.

type Kind string

const (
	KindConflict     Kind = "CONFLICT"
	KindInvalidState Kind = "INVALID_STATE"
	KindNotFound     Kind = "NOT_FOUND"
	KindValidation   Kind = "VALIDATION"
)

type ErrCode string

const (
	ErrBookOnLoan           ErrCode = "BOOK_ALREADY_ISSUED"
	ErrBookReserved         ErrCode = "BOOK_RESERVED"
	ErrDuplicateClaim       ErrCode = "DUPLICATE_CLAIM"
	ErrLoanCapReached       ErrCode = "LOAN_CAP_REACHED"
	ErrBookNotFound         ErrCode = "BOOK_NOT_FOUND"
	ErrStudentNotFound      ErrCode = "STUDENT_NOT_FOUND"
	ErrLoanNotFound         ErrCode = "LOAN_NOT_FOUND"
	ErrReservationNotFound  ErrCode = "RESERVATION_NOT_FOUND"
	ErrReservationNotActive ErrCode = "RESERVATION_NOT_ACTIVE"
	ErrBadDueDate           ErrCode = "BAD_DUE_DATE"
	ErrBadAccession         ErrCode = "BAD_ACCESSION"
)

type codedError struct {
	kind Kind
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }
func (e codedError) Kind() Kind    { return e.kind }

func makeErr(k Kind, c ErrCode, msg string) error { return codedError{kind: k, code: c, msg: msg} }

// Code extracts the error code, "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// KindOf extracts the error kind, "" for uncoded errors.
func KindOf(err error) Kind {
	var ke interface{ Kind() Kind }
	if errors.As(err, &ke) {
		return ke.Kind()
	}
	return ""
}
