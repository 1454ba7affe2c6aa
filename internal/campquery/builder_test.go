package campquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuild_Defaults(t *testing.T) {
	q, err := Build(Params{})
	require.NoError(t, err)

	assert.Equal(t, int64(DefaultLimit), q.Limit)
	assert.Equal(t, bson.D{{Key: "date", Value: 1}}, q.Sort)

	clauses, ok := q.Filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, clauses, len(SearchFields))
	for i, field := range SearchFields {
		assert.Equal(t, bson.M{field: primitive.Regex{Pattern: "", Options: "i"}}, clauses[i])
	}
}

func TestBuild_SearchIsLiteral(t *testing.T) {
	q, err := Build(Params{Search: "a.b(c"})
	require.NoError(t, err)

	clauses := q.Filter["$or"].(bson.A)
	first := clauses[0].(bson.M)["campName"].(primitive.Regex)
	assert.Equal(t, `a\.b\(c`, first.Pattern)
	assert.Equal(t, "i", first.Options)
}

func TestBuild_OrganizerFilter(t *testing.T) {
	q, err := Build(Params{Search: "eye", OrganizerEmail: "org@x.com"})
	require.NoError(t, err)

	and, ok := q.Filter["$and"].(bson.A)
	require.True(t, ok)
	require.Len(t, and, 2)
	assert.Contains(t, and[0].(bson.M), "$or")
	assert.Equal(t, bson.M{"organizerEmail": "org@x.com"}, and[1])
}

func TestBuild_Sort(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   bson.D
	}{
		{"popular overrides sortBy", Params{Popular: "true", SortBy: "campName", Order: "asc"}, bson.D{{Key: "participantCount", Value: -1}}},
		{"popular literal false is still truthy", Params{Popular: "false", SortBy: "campFees"}, bson.D{{Key: "participantCount", Value: -1}}},
		{"most registered", Params{SortBy: "mostRegistered", Order: "asc"}, bson.D{{Key: "participantCount", Value: -1}}},
		{"fees asc", Params{SortBy: "campFees", Order: "asc"}, bson.D{{Key: "campFees", Value: 1}}},
		{"fees desc", Params{SortBy: "campFees", Order: "desc"}, bson.D{{Key: "campFees", Value: -1}}},
		{"name asc", Params{SortBy: "campName"}, bson.D{{Key: "campName", Value: 1}}},
		{"participant count asc", Params{SortBy: "participantCount"}, bson.D{{Key: "participantCount", Value: 1}}},
		{"unknown order is descending", Params{SortBy: "date", Order: "sideways"}, bson.D{{Key: "date", Value: -1}}},
		{"unknown field falls back to date", Params{SortBy: "organizer", Order: "asc"}, bson.D{{Key: "date", Value: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Build(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Sort)
		})
	}
}

func TestBuild_Limit(t *testing.T) {
	q, err := Build(Params{Limit: "6"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), q.Limit)

	for _, bad := range []string{"abc", "0", "-3", "1.5"} {
		_, err := Build(Params{Limit: bad})
		assert.ErrorIs(t, err, ErrInvalidLimit, bad)
	}
}

func TestParams_Normalized(t *testing.T) {
	assert.Equal(t, Params{SortBy: "date", Order: "asc"}, Params{}.Normalized())
	assert.Equal(t, Params{SortBy: "campFees", Order: "desc"}, Params{SortBy: "campFees", Order: "desc"}.Normalized())
}
