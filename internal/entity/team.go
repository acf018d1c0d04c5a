package entity

import "context"

type TeamRepositoryInterface interface {
	ListIDs(ctx context.Context) ([]string, error)
}

type UserRepositoryInterface interface {
	FindEmail(ctx context.Context, userID string) (string, error)
}
