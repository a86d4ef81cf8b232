package repository

import (
	"github.com/gymportal/portal/internal/domain/payment"
	"github.com/gymportal/portal/internal/domain/user"
	"github.com/gymportal/portal/internal/domain/waiver"
	"github.com/gymportal/portal/internal/logger"
	"github.com/gymportal/portal/internal/postgres"
	postgresRepo "github.com/gymportal/portal/internal/repository/postgres"
)

func NewPaymentRepository(db *postgres.DB, logger *logger.Logger) payment.Repository {
	return postgresRepo.NewPaymentRepository(db, logger)
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return postgresRepo.NewUserRepository(db, logger)
}

func NewWaiverRepository(db *postgres.DB, logger *logger.Logger) waiver.Repository {
	return postgresRepo.NewWaiverRepository(db, logger)
}
