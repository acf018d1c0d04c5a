package usecase

import "errors"

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeLeadNotFound = "LEAD_NOT_FOUND"
	CodeNotFound     = "NOT_FOUND"
	CodeFetchFailed  = "FETCH_FAILED"
	CodeDatabase     = "DATABASE_ERROR"
)

// Generic message shown when the lead store cannot be read.
const fetchFailedMessage = "Erreur lors du chargement des données"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func fetchFailed(err error) error {
	return &TechnicalError{Code: CodeFetchFailed, Message: fetchFailedMessage, Err: err}
}
