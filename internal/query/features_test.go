package query

import (
	"net/url"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func parse(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return v
}

func TestBuildFilterEquality(t *testing.T) {
	spec := Build(parse(t, "difficulty=easy&duration=5"))
	want := bson.M{"difficulty": "easy", "duration": float64(5)}
	if !reflect.DeepEqual(spec.Filter, want) {
		t.Errorf("filter = %v, want %v", spec.Filter, want)
	}
}

func TestBuildFilterOperators(t *testing.T) {
	spec := Build(parse(t, "price[gte]=500&price[lt]=2000&duration[lte]=10"))
	want := bson.M{
		"price":    bson.M{"$gte": float64(500), "$lt": float64(2000)},
		"duration": bson.M{"$lte": float64(10)},
	}
	if !reflect.DeepEqual(spec.Filter, want) {
		t.Errorf("filter = %v, want %v", spec.Filter, want)
	}
}

func TestBuildReservedParamsNotFilters(t *testing.T) {
	spec := Build(parse(t, "page=2&sort=price&limit=10&fields=name"))
	if len(spec.Filter) != 0 {
		t.Errorf("reserved params leaked into filter: %v", spec.Filter)
	}
}

func TestBuildSort(t *testing.T) {
	spec := Build(parse(t, "sort=-price,ratings_average"))
	want := bson.D{{Key: "price", Value: -1}, {Key: "ratings_average", Value: 1}}
	if !reflect.DeepEqual(spec.Sort, want) {
		t.Errorf("sort = %v, want %v", spec.Sort, want)
	}
}

func TestBuildSortDefault(t *testing.T) {
	spec := Build(parse(t, ""))
	want := bson.D{{Key: "created_at", Value: -1}}
	if !reflect.DeepEqual(spec.Sort, want) {
		t.Errorf("default sort = %v, want %v", spec.Sort, want)
	}
}

func TestBuildFields(t *testing.T) {
	spec := Build(parse(t, "fields=name,price, summary"))
	want := bson.M{"name": 1, "price": 1, "summary": 1}
	if !reflect.DeepEqual(spec.Projection, want) {
		t.Errorf("projection = %v, want %v", spec.Projection, want)
	}
	if p := Build(parse(t, "")).Projection; p != nil {
		t.Errorf("default projection = %v, want nil", p)
	}
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		raw         string
		skip, limit int64
	}{
		{"", 0, DefaultLimit},
		{"page=1&limit=2", 0, 2},
		{"page=3&limit=2", 4, 2},
		{"page=0&limit=-5", 0, DefaultLimit},
		{"page=abc&limit=xyz", 0, DefaultLimit},
	}
	for _, tt := range tests {
		spec := Build(parse(t, tt.raw))
		if spec.Skip != tt.skip || spec.Limit != tt.limit {
			t.Errorf("%q: skip/limit = %d/%d, want %d/%d", tt.raw, spec.Skip, spec.Limit, tt.skip, tt.limit)
		}
	}
}

func TestBuildFilterDropsUnsafeKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bson.M
	}{
		{"raw operator key", "$where=sleep(10000)", bson.M{}},
		{"dotted operator key", "name.%24gt=x", bson.M{}},
		{"dotted path key", "start_location.day=1", bson.M{}},
		{"operator key with plain sibling", "$or=x&difficulty=easy", bson.M{"difficulty": "easy"}},
		{"dotted field in bracket form", "a.b[gte]=1", bson.M{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Build(parse(t, tt.raw))
			if !reflect.DeepEqual(spec.Filter, tt.want) {
				t.Errorf("filter = %v, want %v", spec.Filter, tt.want)
			}
		})
	}
}

func TestSeedWinsOverClientFilter(t *testing.T) {
	spec := Build(parse(t, "tour=spoofed"))
	spec.Seed(bson.M{"tour": "real-id"})
	if spec.Filter["tour"] != "real-id" {
		t.Errorf("seeded filter overridden: %v", spec.Filter)
	}
}
