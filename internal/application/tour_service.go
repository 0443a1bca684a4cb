package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/roamtrails/tours-api/internal/domain/entity"
	"github.com/roamtrails/tours-api/internal/domain/repository"
)

// Earth radii used to convert a surface distance to radians for the sphere
// cap geo query.
const (
	earthRadiusMiles = 3963.2
	earthRadiusKm    = 6378.1
)

var ErrBadUnit = errors.New("unit must be mi or km")

// TourService covers the derived tour reads and the search index; plain CRUD
// goes through the generic factory handlers.
type TourService struct {
	Repo    repository.TourRepository
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewTourService(repo repository.TourRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *TourService {
	return &TourService{Repo: repo, Logger: logger, ES: es, ESIndex: esIndex}
}

func (s *TourService) Stats(ctx context.Context) ([]repository.DifficultyStats, error) {
	return s.Repo.Stats(ctx)
}

func (s *TourService) MonthlyPlan(ctx context.Context, year int) ([]repository.MonthPlan, error) {
	return s.Repo.MonthlyPlan(ctx, year)
}

// Within lists tours starting inside the given radius around (lat, lng).
func (s *TourService) Within(ctx context.Context, distance, lat, lng float64, unit string) ([]entity.Tour, error) {
	var radius float64
	switch unit {
	case "mi":
		radius = distance / earthRadiusMiles
	case "km":
		radius = distance / earthRadiusKm
	default:
		return nil, ErrBadUnit
	}
	return s.Repo.Within(ctx, lat, lng, radius)
}

// IndexTour mirrors a tour into Elasticsearch for full-text search. Indexing
// failures are logged and swallowed; the store write already succeeded.
func (s *TourService) IndexTour(ctx context.Context, t *entity.Tour) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          t.ID.Hex(),
		"name":        t.Name,
		"summary":     t.Summary,
		"description": t.Description,
		"difficulty":  t.Difficulty,
		"price":       t.Price,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: t.ID.Hex(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("tour_id", t.ID.Hex()).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("tour_id", t.ID.Hex()).Warn("es index response error")
	}
}

// RemoveTourIndex drops a deleted tour from the search index.
func (s *TourService) RemoveTourIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("tour_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match over name, summary and description.
func (s *TourService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "summary", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
