package mongodb

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/roamtrails/tours-api/internal/domain/entity"
)

func TestScopedMerge(t *testing.T) {
	softScope := bson.M{"active": bson.M{"$ne": false}}
	secretScope := bson.M{"secret_tour": bson.M{"$ne": true}}

	tests := []struct {
		name   string
		repo   *Repo[entity.Tour]
		filter bson.M
		want   bson.M
	}{
		{
			name:   "scope added when absent",
			repo:   NewRepo[entity.Tour](nil, softScope),
			filter: bson.M{"name": "x"},
			want:   bson.M{"name": "x", "active": bson.M{"$ne": false}},
		},
		{
			name:   "plain scope yields to explicit filter",
			repo:   NewRepo[entity.Tour](nil, softScope),
			filter: bson.M{"active": false},
			want:   bson.M{"active": false},
		},
		{
			name:   "strict scope added when absent",
			repo:   NewStrictRepo[entity.Tour](nil, secretScope),
			filter: bson.M{"difficulty": "easy"},
			want:   bson.M{"difficulty": "easy", "secret_tour": bson.M{"$ne": true}},
		},
		{
			// A public caller asking for secret tours still gets the guard.
			name:   "strict scope overrides client filter",
			repo:   NewStrictRepo[entity.Tour](nil, secretScope),
			filter: bson.M{"secret_tour": true},
			want:   bson.M{"secret_tour": bson.M{"$ne": true}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.repo.scoped(tt.filter)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("scoped() = %v, want %v", got, tt.want)
			}
		})
	}
}
