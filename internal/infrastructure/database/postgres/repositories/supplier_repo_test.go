package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/supplier"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/postgres"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

type SupplierRepoTestSuite struct {
	suite.Suite
	mock      sqlmock.Sqlmock
	db        *sql.DB
	suppliers supplier.Repository
}

func (s *SupplierRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.NoError(err)

	conn := postgres.NewConnectionWithDB(s.db, logging.NewNopLogger())
	s.suppliers = NewPostgresSupplierRepo(conn, logging.NewNopLogger())
}

func (s *SupplierRepoTestSuite) TearDownTest() {
	s.db.Close()
	s.NoError(s.mock.ExpectationsWereMet())
}

func existsRow(exists bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(exists)
}

func (s *SupplierRepoTestSuite) TestCreate() {
	s.mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(3), "acme", "US").
		WillReturnRows(existsRow(false))
	s.mock.ExpectQuery("INSERT INTO suppliers").
		WithArgs(int64(3), "Acme Co.", "acme", "US", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(7), time.Now(), time.Now()))

	sup, err := supplier.New(3, "Acme Co.", "US", "electronics")
	s.Require().NoError(err)
	s.Require().NoError(s.suppliers.Create(context.Background(), sup))
	s.Equal(int64(7), int64(sup.ID))
}

func (s *SupplierRepoTestSuite) TestCreate_DuplicateOfOwnRow() {
	s.mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(3), "acme", "US").
		WillReturnRows(existsRow(true))

	sup, err := supplier.New(3, "Acme Co.", "US", "")
	s.Require().NoError(err)
	err = s.suppliers.Create(context.Background(), sup)
	s.Require().Error(err)
	s.Equal(errors.ErrCodeSupplierDuplicate, errors.GetCode(err))
}

func (s *SupplierRepoTestSuite) TestCreate_DuplicateOfGlobalRow() {
	// Uniqueness spans the visible set: a tenant registering an exact copy
	// of a global (tenant 0) seed supplier is rejected even though the
	// per-tenant unique constraint would admit the row.
	s.mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(9), "globex", "DE").
		WillReturnRows(existsRow(true))

	sup, err := supplier.New(9, "Globex Trading GmbH", "DE", "")
	s.Require().NoError(err)
	err = s.suppliers.Create(context.Background(), sup)
	s.Require().Error(err)
	s.Equal(errors.ErrCodeSupplierDuplicate, errors.GetCode(err))
}

func (s *SupplierRepoTestSuite) TestCreate_RaceLostMapsToDuplicate() {
	// Two concurrent registrations can both pass the visibility check; the
	// unique constraint arbitrates and the loser surfaces as a duplicate.
	s.mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(3), "acme", "US").
		WillReturnRows(existsRow(false))
	s.mock.ExpectQuery("INSERT INTO suppliers").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "suppliers_tenant_id_normalized_name_country_key"})

	sup, err := supplier.New(3, "Acme Co.", "US", "")
	s.Require().NoError(err)
	err = s.suppliers.Create(context.Background(), sup)
	s.Require().Error(err)
	s.Equal(errors.ErrCodeSupplierDuplicate, errors.GetCode(err))
}

func TestSupplierRepoTestSuite(t *testing.T) {
	suite.Run(t, new(SupplierRepoTestSuite))
}
