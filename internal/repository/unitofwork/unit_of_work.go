package unitofwork

import (
	"context"

	"reversa-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	StoreRepository() contract.StoreRepository
	UserRepository() contract.UserRepository
	RequestRepository() contract.RequestRepository
	TimelineRepository() contract.TimelineRepository
	SyncJobRepository() contract.SyncJobRepository
	PolicyRepository() contract.PolicyRepository
	SummaryRepository() contract.SummaryRepository
	CredentialRepository() contract.CredentialRepository
}
