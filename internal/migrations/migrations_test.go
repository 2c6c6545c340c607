package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteshare/internal/repository/postgres"
)

func TestRegistry(t *testing.T) {
	vs := versions()
	require.Equal(t, []string{"20250301090000", "20250301090100", "20250301090200"}, vs)

	for _, v := range vs {
		mg := registry[v]
		assert.Equal(t, v, mg.version)
		assert.NotEmpty(t, mg.name)
		assert.NotNil(t, mg.up, v)
		assert.NotNil(t, mg.down, v)
	}
}

func TestAddMigration_RejectsDuplicateVersion(t *testing.T) {
	assert.Panics(t, func() {
		addMigration(&migration{version: "20250301090000", name: "again"})
	})
}

func TestNewTableNames(t *testing.T) {
	tables := postgres.NewTableNames("test_")

	assert.Equal(t, "test_users", tables.Users)
	assert.Equal(t, "test_documents", tables.Documents)
	assert.Equal(t, "test_document_collaborators", tables.Collaborators)
	assert.Equal(t, "test_schema_migrations", tables.SchemaMigrations)
}
