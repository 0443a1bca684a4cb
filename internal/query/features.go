// Package query translates generic HTTP query parameters into a mongo find
// specification: every non-reserved parameter becomes a filter, then sort,
// field projection and pagination are layered on top, in that order. Nothing
// here touches storage; repositories execute the resulting FindSpec.
package query

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultLimit = 100
	DefaultSort  = "created_at"
)

// Reserved control parameters that never become filters.
var reserved = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// opKey matches the field[op] filter form, e.g. price[gte].
var opKey = regexp.MustCompile(`^([a-z_][a-z0-9_]*)\[(gte|gt|lte|lt)\]$`)

// safeKey rejects parameter names that would reach the store as raw
// operators or dotted paths ($where, name.$gt). Comparison operators are
// only accepted through the field[op] form.
func safeKey(key string) bool {
	return key != "" && !strings.HasPrefix(key, "$") && !strings.Contains(key, ".")
}

// FindSpec is a composed, not-yet-executed list query.
type FindSpec struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Skip       int64
	Limit      int64
}

// Build runs the full pipeline over the raw query parameters.
func Build(values url.Values) FindSpec {
	spec := FindSpec{Filter: bson.M{}}
	spec.filter(values)
	spec.sort(values.Get("sort"))
	spec.fields(values.Get("fields"))
	spec.paginate(values.Get("page"), values.Get("limit"))
	return spec
}

// Seed merges pre-set filter conditions (e.g. scoping reviews to one tour).
// Seeded keys win over client-provided ones.
func (s *FindSpec) Seed(seed bson.M) *FindSpec {
	for k, v := range seed {
		s.Filter[k] = v
	}
	return s
}

func (s *FindSpec) filter(values url.Values) {
	for key := range values {
		if reserved[key] {
			continue
		}
		val := coerce(values.Get(key))
		if m := opKey.FindStringSubmatch(key); m != nil {
			field, op := m[1], "$"+m[2]
			cond, ok := s.Filter[field].(bson.M)
			if !ok {
				cond = bson.M{}
				s.Filter[field] = cond
			}
			cond[op] = val
			continue
		}
		if !safeKey(key) {
			continue
		}
		s.Filter[key] = val
	}
}

func (s *FindSpec) sort(raw string) {
	if raw == "" {
		s.Sort = bson.D{{Key: DefaultSort, Value: -1}}
		return
	}
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(f, "-") {
			dir = -1
			f = f[1:]
		}
		s.Sort = append(s.Sort, bson.E{Key: f, Value: dir})
	}
	if len(s.Sort) == 0 {
		s.Sort = bson.D{{Key: DefaultSort, Value: -1}}
	}
}

func (s *FindSpec) fields(raw string) {
	if raw == "" {
		return
	}
	proj := bson.M{}
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			proj[f] = 1
		}
	}
	if len(proj) > 0 {
		s.Projection = proj
	}
}

func (s *FindSpec) paginate(pageRaw, limitRaw string) {
	page := int64(1)
	if p, err := strconv.ParseInt(pageRaw, 10, 64); err == nil && p > 0 {
		page = p
	}
	limit := int64(DefaultLimit)
	if l, err := strconv.ParseInt(limitRaw, 10, 64); err == nil && l > 0 {
		limit = l
	}
	s.Skip = (page - 1) * limit
	s.Limit = limit
}

// coerce turns numeric and boolean parameter strings into typed values so
// comparison operators work against number fields.
func coerce(v string) any {
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return v
}
