package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joinflow/joinflow/internal/onboarding/application/services"
)

func TestSQLiteTemplateStore_SaveAndFind(t *testing.T) {
	store := NewSQLiteTemplateStore(setupTestDB(t))
	ctx := context.Background()

	tmpl := &services.EmailTemplate{
		ID:      "tmpl-DOCUMENT_REQUEST",
		Subject: "Documents needed, {{firstName}}",
		Body:    "Hi {{fullName}}, please upload your documents before {{joiningDate}}.",
	}
	require.NoError(t, store.Save(ctx, tmpl))

	found, err := store.FindEmailTemplate(ctx, "tmpl-DOCUMENT_REQUEST")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, tmpl.Subject, found.Subject)
	assert.Equal(t, tmpl.Body, found.Body)

	tmpl.Subject = "Documents outstanding, {{firstName}}"
	require.NoError(t, store.Save(ctx, tmpl))

	found, err = store.FindEmailTemplate(ctx, "tmpl-DOCUMENT_REQUEST")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Documents outstanding, {{firstName}}", found.Subject)
}

func TestSQLiteTemplateStore_FindMiss(t *testing.T) {
	store := NewSQLiteTemplateStore(setupTestDB(t))

	found, err := store.FindEmailTemplate(context.Background(), "tmpl-unknown")
	require.NoError(t, err)
	assert.Nil(t, found)
}
