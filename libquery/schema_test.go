package libquery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliofile/library-query-go/libquery"
)

func Test_SchemaFor_AllKinds(t *testing.T) {
	tests := []struct {
		kind      libquery.EntityKind
		wantTable string
	}{
		{kind: libquery.KindUser, wantTable: "users"},
		{kind: libquery.KindBook, wantTable: "books"},
		{kind: libquery.KindBorrowRecord, wantTable: "borrow_records"},
		{kind: libquery.KindReview, wantTable: "reviews"},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			schema, err := libquery.SchemaFor(tc.kind)

			require.NoError(t, err)
			assert.Equal(t, tc.wantTable, schema.Table)
			assert.Equal(t, "id", schema.PrimaryKey)
			assert.True(t, schema.HasColumn(schema.PrimaryKey))
		})
	}
}

func Test_SchemaFor_UnknownKind(t *testing.T) {
	_, err := libquery.SchemaFor("magazine")

	assert.ErrorIs(t, err, libquery.ErrUnknownEntityKind)
}

func Test_Schema_RelationsAreConsistent(t *testing.T) {
	for _, kind := range libquery.AllKinds() {
		schema, err := libquery.SchemaFor(kind)
		require.NoError(t, err)

		for relation, relSchema := range schema.Relations {
			related, relatedErr := libquery.SchemaFor(relSchema.Kind)
			require.NoError(t, relatedErr, "relation %q of %q points at unknown kind", relation, kind)

			if relSchema.ToParent {
				// the foreign key lives on the owning table
				assert.True(t, schema.HasColumn(relSchema.ForeignKey),
					"relation %q of %q: fk %q missing on owning table", relation, kind, relSchema.ForeignKey)
			} else {
				// the foreign key lives on the related (child) table
				assert.True(t, related.HasColumn(relSchema.ForeignKey),
					"relation %q of %q: fk %q missing on child table", relation, kind, relSchema.ForeignKey)
			}
		}
	}
}

func Test_Schema_ForeignKeysReferenceKnownColumns(t *testing.T) {
	for _, kind := range libquery.AllKinds() {
		schema, err := libquery.SchemaFor(kind)
		require.NoError(t, err)

		for column := range schema.ForeignKeys {
			assert.True(t, schema.HasColumn(column),
				"fk column %q of %q is not part of the schema", column, kind)
		}
	}
}

func Test_Schema_QualifiedColumn(t *testing.T) {
	schema, err := libquery.SchemaFor(libquery.KindUser)
	require.NoError(t, err)

	assert.Equal(t, "users.last_name", schema.QualifiedColumn("last_name"))
}

func Test_ValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{name: "plain_address", address: "ada@example.com"},
		{name: "address_with_name", address: "Ada Lovelace <ada@example.com>"},
		{name: "missing_at", address: "ada.example.com", wantErr: true},
		{name: "empty", address: "", wantErr: true},
		{name: "missing_domain", address: "ada@", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := libquery.ValidateEmail(tc.address)

			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}
