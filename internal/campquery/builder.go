// server/internal/campquery/builder.go

// Package campquery turns camp listing parameters into a store filter, sort
// and result cap.
package campquery

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultLimit caps a listing when no limit is supplied.
const DefaultLimit = 1000

const (
	defaultSortBy = "date"
	orderAsc      = "asc"

	sortMostRegistered = "mostRegistered"
)

var ErrInvalidLimit = errors.New("limit must be a positive integer")

// SearchFields are matched, case-insensitively, against the search term.
var SearchFields = []string{"campName", "description", "location", "healthcareProfessional", "date"}

var sortableFields = map[string]bool{
	"campName":         true,
	"date":             true,
	"participantCount": true,
	"campFees":         true,
}

// Params are the raw listing query parameters. Popular and Limit stay strings
// so their query-string semantics are decided here and not by the binder.
type Params struct {
	Search         string `form:"search"`
	SortBy         string `form:"sortBy"`
	Order          string `form:"order"`
	Limit          string `form:"limit"`
	Popular        string `form:"popular"`
	OrganizerEmail string `form:"organizerEmail"`
}

// Query is what the store executes.
type Query struct {
	Filter bson.M
	Sort   bson.D
	Limit  int64
}

// Build translates p into a Query.
func Build(p Params) (Query, error) {
	limit, err := parseLimit(p.Limit)
	if err != nil {
		return Query{}, err
	}
	return Query{
		Filter: buildFilter(p.Search, p.OrganizerEmail),
		Sort:   buildSort(p),
		Limit:  limit,
	}, nil
}

// IsPopular reports whether the popular flag is set. Any non-empty value
// counts, including the literal "false".
func (p Params) IsPopular() bool {
	return p.Popular != ""
}

// Normalized returns p with defaults filled in, so equivalent requests
// compare equal.
func (p Params) Normalized() Params {
	if p.SortBy == "" {
		p.SortBy = defaultSortBy
	}
	if p.Order == "" {
		p.Order = orderAsc
	}
	return p
}

func buildFilter(search, organizerEmail string) bson.M {
	// The term is a literal: pattern metacharacters are escaped.
	pattern := regexp.QuoteMeta(search)

	clauses := make(bson.A, 0, len(SearchFields))
	for _, field := range SearchFields {
		clauses = append(clauses, bson.M{field: primitive.Regex{Pattern: pattern, Options: "i"}})
	}
	filter := bson.M{"$or": clauses}

	if organizerEmail != "" {
		filter = bson.M{"$and": bson.A{filter, bson.M{"organizerEmail": organizerEmail}}}
	}
	return filter
}

func buildSort(p Params) bson.D {
	p = p.Normalized()

	direction := -1
	if p.Order == orderAsc {
		direction = 1
	}

	switch {
	case p.IsPopular(), p.SortBy == sortMostRegistered:
		return bson.D{{Key: "participantCount", Value: -1}}
	case p.SortBy == "campFees", p.SortBy == "campName":
		return bson.D{{Key: p.SortBy, Value: direction}}
	case sortableFields[p.SortBy]:
		return bson.D{{Key: p.SortBy, Value: direction}}
	}
	return bson.D{{Key: defaultSortBy, Value: direction}}
}

func parseLimit(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLimit, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidLimit
	}
	return n, nil
}
