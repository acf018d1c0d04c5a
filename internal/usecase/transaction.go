package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Transaction runs a sequence of writes against independent stores and
// undoes the completed ones when a later step fails. Compensation i undoes
// operation i.
type Transaction struct {
	operations    []Operation
	compensations []Compensation
	logger        *zap.Logger
}

type Operation struct {
	Name string
	Fn   func(context.Context) error
}

type Compensation struct {
	Name string
	Fn   func(context.Context) error
}

func NewTransaction(logger *zap.Logger) *Transaction {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transaction{
		operations:    []Operation{},
		compensations: []Compensation{},
		logger:        logger,
	}
}

func (t *Transaction) AddOperation(name string, fn func(context.Context) error) {
	t.operations = append(t.operations, Operation{name, fn})
}

func (t *Transaction) AddCompensation(name string, fn func(context.Context) error) {
	t.compensations = append(t.compensations, Compensation{name, fn})
}

// Execute runs the operations in order. When one fails, the compensations of
// the completed ones run in reverse even if ctx is already cancelled, and
// their failures are joined to the returned error.
func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			failed := fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", op.Name, err, i)
			return errors.Join(failed, t.rollback(context.WithoutCancel(ctx), i))
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) error {
	var errs []error
	for i := failedAtIndex - 1; i >= 0; i-- {
		if i >= len(t.compensations) {
			continue
		}
		comp := t.compensations[i]
		if err := comp.Fn(ctx); err != nil {
			t.logger.Warn("compensation failed, data may be inconsistent",
				zap.String("compensation", comp.Name),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("compensation '%s' failed: %w", comp.Name, err))
		}
	}
	return errors.Join(errs...)
}
