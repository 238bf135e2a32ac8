package endpoints

import (
	"database/sql"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/iam-in-go/pkg/config"
	"github.com/doodlesbykumbi/iam-in-go/pkg/server"
)

// MockTestServer creates a server backed by the gorm stores on a mocked
// database, with every endpoint registered.
// Returns the server, sqlmock instance, and any error
func NewMockTestServer(cfg *config.IAMConfig) (*server.Server, *MockDB, error) {
	mockDB, err := NewMockDB()
	if err != nil {
		return nil, nil, err
	}

	s, err := server.NewServer(cfg, mockDB.GormDB, zap.NewNop(), "127.0.0.1", "0")
	if err != nil {
		_ = mockDB.Close()
		return nil, nil, err
	}
	RegisterAll(s)

	return s, mockDB, nil
}

// MockDB wraps sqlmock for easier test setup
type MockDB struct {
	DB     *sql.DB
	Mock   sqlmock.Sqlmock
	GormDB *gorm.DB
}

// NewMockDB creates a new mock database connection
func NewMockDB() (*MockDB, error) {
	db, mock, err := sqlmock.New()
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &MockDB{
		DB:     db,
		Mock:   mock,
		GormDB: gormDB,
	}, nil
}

// Close closes the mock database
func (m *MockDB) Close() error {
	return m.DB.Close()
}

// ExpectHealthCheck sets up expectation for the database connectivity check
func (m *MockDB) ExpectHealthCheck(err error) {
	exp := m.Mock.ExpectExec(`SELECT 1`)
	if err != nil {
		exp.WillReturnError(err)
		return
	}
	exp.WillReturnResult(sqlmock.NewResult(0, 1))
}

// ExpectTenantRoleCount sets up expectation for counting tenant roles
func (m *MockDB) ExpectTenantRoleCount(count int64) {
	m.Mock.ExpectQuery(`SELECT COUNT\(\*\) FROM tenant_roles`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

// ExpectTenantRoleQuery sets up expectation for a tenant role lookup by id
func (m *MockDB) ExpectTenantRoleQuery(id, tenantID, roleID int64) {
	rows := sqlmock.NewRows([]string{"id", "tenant_id", "role_id"}).AddRow(id, tenantID, roleID)
	m.Mock.ExpectQuery(`SELECT .* FROM tenant_roles WHERE id`).
		WillReturnRows(rows)
}

// ExpectTenantRoleNotFound sets up expectation for a missing tenant role
func (m *MockDB) ExpectTenantRoleNotFound() {
	m.Mock.ExpectQuery(`SELECT .* FROM tenant_roles WHERE id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "role_id"}))
}

// VerifyExpectations checks that all expectations were met
func (m *MockDB) VerifyExpectations() error {
	return m.Mock.ExpectationsWereMet()
}
