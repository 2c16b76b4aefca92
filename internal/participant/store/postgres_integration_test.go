//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"golfbot/internal/participant/models"
	"golfbot/internal/participant/store"
	"golfbot/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	StoreContractSuite
	postgres *containers.PostgresContainer
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "participants"))
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) TestUpdateMergesAtDocumentLevel() {
	ctx := context.Background()
	p := s.create("ann", 3)

	// A key written outside the service survives a patch that does not name it.
	_, err := s.postgres.DB.ExecContext(ctx,
		`UPDATE participants SET doc = doc || '{"handicap": 12}'::jsonb WHERE id = $1`, p.ID.String())
	s.Require().NoError(err)

	var patch models.Patch
	patch.SetName("bob")
	_, err = s.store.UpdateByID(ctx, p.ID, patch)
	s.Require().NoError(err)

	var handicap int
	err = s.postgres.DB.QueryRowContext(ctx,
		`SELECT (doc->>'handicap')::int FROM participants WHERE id = $1`, p.ID.String()).Scan(&handicap)
	s.Require().NoError(err)
	s.Equal(12, handicap)
}
