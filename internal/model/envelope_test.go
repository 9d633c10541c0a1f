package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenKeepsServerMeta(t *testing.T) {
	body := `{
		"status": "success",
		"message": "ok",
		"timestamp": "2024-01-01T00:00:00Z",
		"data": {
			"docs": [{"adminId": "a1", "fullName": "Ann"}],
			"totalDocs": 25,
			"pageSize": 10,
			"totalPages": 3,
			"page": 2,
			"pagingCounter": 11,
			"hasPrevPage": true,
			"hasNextPage": true,
			"prevPage": 1,
			"nextPage": 3
		}
	}`

	var env PaginatedEnvelope[SubAdmin]
	require.NoError(t, json.Unmarshal([]byte(body), &env))

	resp := Flatten(env)

	assert.Equal(t, 25, resp.TotalDocs)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.Page)
	require.NotNil(t, resp.NextPage)
	assert.Equal(t, 3, *resp.NextPage)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Ann", resp.Data[0].FullName)
}

func TestFlattenNilDocs(t *testing.T) {
	resp := Flatten(PaginatedEnvelope[SubAdmin]{})

	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Data)
}

func TestUserInitials(t *testing.T) {
	tests := []struct {
		user *User
		want string
	}{
		{user: nil, want: "U"},
		{user: &User{Email: "a@b.c"}, want: "U"},
		{user: &User{Name: "Dev User"}, want: "DU"},
		{user: &User{Name: "  Jane  Q Public"}, want: "JQP"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.user.Initials())
	}
}

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, Period7Days, ParsePeriod("7d"))
	assert.Equal(t, Period1Year, ParsePeriod("1y"))
	assert.Equal(t, DefaultPeriod, ParsePeriod(""))
	assert.Equal(t, DefaultPeriod, ParsePeriod("2w"))
	assert.Equal(t, 365, Period1Year.Days())
}
