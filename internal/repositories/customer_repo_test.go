package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"garagepro/internal/common"
	"garagepro/internal/models"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CustomerRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    CustomerRepository
	now     time.Time
	context context.Context
}

func (suite *CustomerRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewCustomerRepo(mock)
	suite.now = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	suite.context = context.Background()
}

func (suite *CustomerRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestCustomerRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerRepoTestSuite))
}

func (suite *CustomerRepoTestSuite) customer() *models.Customer {
	return &models.Customer{
		ID:        "cust_1709285400000_ab12cd34",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "555-0100",
		Address:   "1 Main St",
		CreatedAt: suite.now,
		UpdatedAt: suite.now,
	}
}

func (suite *CustomerRepoTestSuite) customerRows(customers ...*models.Customer) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name", "email", "phone", "address", "created_at", "updated_at"})
	for _, c := range customers {
		rows.AddRow(c.ID, c.Name, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt)
	}
	return rows
}

func (suite *CustomerRepoTestSuite) TestCreate_Success() {
	c := suite.customer()

	suite.mock.ExpectExec(`INSERT INTO customers`).
		WithArgs(c.ID, c.Name, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(suite.T(), suite.repo.Create(suite.context, c))
}

func (suite *CustomerRepoTestSuite) TestCreate_DuplicateID() {
	c := suite.customer()

	suite.mock.ExpectExec(`INSERT INTO customers`).
		WithArgs(c.ID, c.Name, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "customers_pkey"})

	err := suite.repo.Create(suite.context, c)
	assert.ErrorIs(suite.T(), err, common.ErrConflict)
	assert.ErrorIs(suite.T(), err, common.ErrDuplicateKey)
}

func (suite *CustomerRepoTestSuite) TestGetByID_Success() {
	c := suite.customer()

	suite.mock.ExpectQuery(`SELECT .+ FROM customers WHERE id = \$1`).
		WithArgs(c.ID).
		WillReturnRows(suite.customerRows(c))

	got, err := suite.repo.GetByID(suite.context, c.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), c, got)
}

func (suite *CustomerRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT .+ FROM customers WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	got, err := suite.repo.GetByID(suite.context, "missing")
	assert.Nil(suite.T(), got)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
	assert.EqualError(suite.T(), err, "Customer not found")
}

func (suite *CustomerRepoTestSuite) TestGetByID_DriverError() {
	suite.mock.ExpectQuery(`SELECT .+ FROM customers WHERE id = \$1`).
		WithArgs("cust_1").
		WillReturnError(errors.New("connection refused"))

	_, err := suite.repo.GetByID(suite.context, "cust_1")
	assert.ErrorIs(suite.T(), err, common.ErrPersistence)
}

func (suite *CustomerRepoTestSuite) TestUpdate() {
	c := suite.customer()
	c.Address = "2 Side St"

	suite.mock.ExpectExec(`UPDATE customers`).
		WithArgs(c.Name, c.Email, c.Phone, c.Address, c.UpdatedAt, c.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(suite.T(), suite.repo.Update(suite.context, c))

	suite.mock.ExpectExec(`UPDATE customers`).
		WithArgs(c.Name, c.Email, c.Phone, c.Address, c.UpdatedAt, c.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(suite.T(), suite.repo.Update(suite.context, c), common.ErrNotFound)
}

func (suite *CustomerRepoTestSuite) TestDelete() {
	suite.mock.ExpectExec(`DELETE FROM customers WHERE id = \$1`).
		WithArgs("cust_1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	deleted, err := suite.repo.Delete(suite.context, "cust_1")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), deleted)

	suite.mock.ExpectExec(`DELETE FROM customers WHERE id = \$1`).
		WithArgs("nonexistent-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	deleted, err = suite.repo.Delete(suite.context, "nonexistent-id")
	require.NoError(suite.T(), err)
	assert.False(suite.T(), deleted)
}

func (suite *CustomerRepoTestSuite) TestList_OrderedByName() {
	a := suite.customer()
	b := suite.customer()
	b.ID = "cust_2"
	b.Name = "Zed"

	suite.mock.ExpectQuery(`SELECT .+ FROM customers ORDER BY name ASC`).
		WillReturnRows(suite.customerRows(a, b))

	got, err := suite.repo.List(suite.context)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), got, 2)
	assert.Equal(suite.T(), "Jane Doe", got[0].Name)
	assert.Equal(suite.T(), "Zed", got[1].Name)
}

func (suite *CustomerRepoTestSuite) TestList_Empty() {
	suite.mock.ExpectQuery(`SELECT .+ FROM customers`).
		WillReturnRows(suite.customerRows())

	got, err := suite.repo.List(suite.context)
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), got)
	assert.Empty(suite.T(), got)
}
