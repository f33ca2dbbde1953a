package unitofwork

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"reversa-be/internal/repository/contract"
	"reversa-be/internal/repository/implementation"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) StoreRepository() contract.StoreRepository {
	return implementation.NewStoreRepository(u.getDB())
}

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) RequestRepository() contract.RequestRepository {
	return implementation.NewRequestRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TimelineRepository() contract.TimelineRepository {
	return implementation.NewTimelineRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SyncJobRepository() contract.SyncJobRepository {
	return implementation.NewSyncJobRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PolicyRepository() contract.PolicyRepository {
	return implementation.NewPolicyRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SummaryRepository() contract.SummaryRepository {
	return implementation.NewSummaryRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CredentialRepository() contract.CredentialRepository {
	return implementation.NewCredentialRepository(u.getDB())
}
