package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/backlogbingo/internal/metrics"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/dynamic"
	"github.com/mcoot/backlogbingo/internal/services/rules"
	"github.com/mcoot/backlogbingo/internal/storage/memory"
	"github.com/mcoot/backlogbingo/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	metrics *metrics.Metrics
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.metrics = metrics.New()
	rulesService := rules.New(s.storage, logger)
	fetchCfg := DefaultFetchConfig()
	fetchCfg.AllowPrivate = true
	s.service = New(s.storage, rulesService, NewFetcher(fetchCfg, logger), s.metrics, logger)
	s.ctx = context.Background()
}

const validSource = `{
	"version": 1,
	"name": "Backlog",
	"gamerules": {"gridSize": "small", "star": "disabled"},
	"categories": [
		{"name": "Play NUMBER[1,5] hours", "group": "time"},
		{"name": "Finish CHOOSE[one]", "group": "time"},
		{"name": "Three", "group": "genre"},
		{"name": "Four"}, {"name": "Five"}, {"name": "Six"},
		{"name": "Seven"}, {"name": "Eight"}, {"name": "Nine"}
	]
}`

func (s *ServiceSuite) TestLoadStoresSourceAndAppliesRules() {
	result, err := s.service.Load(s.ctx, "p1", []byte(validSource), FormatJSON)
	s.Require().NoError(err)

	s.Equal("Backlog", result.Source.Name)
	s.True(result.RulesApplied)
	s.Equal(model.GridSmall, result.Rules.GridSize)
	s.Equal(model.StarDisabled, result.Rules.Star)

	stored, err := s.storage.GetCardSource(s.ctx, "p1")
	s.Require().NoError(err)
	s.Len(stored.Categories, 9)

	current, err := s.storage.GetGameRules(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.GridSmall, current.GridSize)

	s.Equal(1.0, promtest.ToFloat64(s.metrics.SourcesLoaded.WithLabelValues("json", "upload")))
}

func (s *ServiceSuite) TestLoadReportsTemplateErrors() {
	result, err := s.service.Load(s.ctx, "p1", []byte(validSource), FormatJSON)
	s.Require().NoError(err)

	s.Require().Len(result.TemplateErrors, 1)
	s.ErrorIs(result.TemplateErrors[0], dynamic.ErrTooFewValues)
	s.Equal("Finish CHOOSE[one]", result.TemplateErrors[0].Line)
}

func (s *ServiceSuite) TestLoadKeepsRulesWhileCardInPlay() {
	s.Require().NoError(s.storage.SaveBingoCard(s.ctx, "p1", &model.BingoCard{Name: "In play"}))

	result, err := s.service.Load(s.ctx, "p1", []byte(validSource), FormatJSON)
	s.Require().NoError(err)

	s.False(result.RulesApplied)
	s.Equal(model.GridMedium, result.Rules.GridSize)
}

func (s *ServiceSuite) TestInvalidSourceIsNotStored() {
	_, err := s.service.Load(s.ctx, "p1", []byte(`{"version": 1, "name": "Short", "categories": []}`), FormatJSON)
	s.ErrorIs(err, ErrInvalidSource)

	_, err = s.storage.GetCardSource(s.ctx, "p1")
	s.ErrorIs(err, model.ErrSourceNotFound)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.SourcesRejected.WithLabelValues("invalid_source")))
}

func (s *ServiceSuite) TestUnreadableDocument() {
	_, err := s.service.Load(s.ctx, "p1", []byte(`not json`), FormatJSON)
	s.ErrorIs(err, ErrInvalidDocument)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.SourcesRejected.WithLabelValues("invalid_document")))
}

func (s *ServiceSuite) TestFetch() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validSource))
	}))
	defer server.Close()

	result, err := s.service.Fetch(s.ctx, "p1", server.URL+"/backlog.json")
	s.Require().NoError(err)
	s.Equal("Backlog", result.Source.Name)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.SourcesLoaded.WithLabelValues("json", "fetch")))
}

func (s *ServiceSuite) TestFetchRecordsServedFormat() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte("version: 1\nname: Served\ncategories:\n" + strings.Repeat("  - name: Game\n", 9)))
	}))
	defer server.Close()

	result, err := s.service.Fetch(s.ctx, "p1", server.URL+"/backlog")
	s.Require().NoError(err)
	s.Equal("Served", result.Source.Name)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.SourcesLoaded.WithLabelValues("yaml", "fetch")))
	s.Zero(promtest.ToFloat64(s.metrics.SourcesLoaded.WithLabelValues("json", "fetch")))
}

// rulesFailStorage fails every rules write
type rulesFailStorage struct {
	*memory.Storage
}

func (rulesFailStorage) SaveGameRules(context.Context, model.ProfileID, model.GameRules) error {
	return errors.New("disk full")
}

func (s *ServiceSuite) newFailingService() *Service {
	logger := testutil.NopLogger()
	store := rulesFailStorage{s.storage}
	return New(store, rules.New(store, logger), NewFetcher(DefaultFetchConfig(), logger), s.metrics, logger)
}

func (s *ServiceSuite) TestFailedRulesLeaveNoSource() {
	_, err := s.newFailingService().Load(s.ctx, "p1", []byte(validSource), FormatJSON)
	s.EqualError(err, "disk full")

	_, err = s.service.Get(s.ctx, "p1")
	s.ErrorIs(err, model.ErrSourceNotFound)
	s.Zero(promtest.ToFloat64(s.metrics.SourcesLoaded.WithLabelValues("json", "upload")))
}

func (s *ServiceSuite) TestFailedRulesKeepPreviousSource() {
	previous := strings.Replace(validSource, `"gamerules": {"gridSize": "small", "star": "disabled"},`, "", 1)
	previous = strings.Replace(previous, `"name": "Backlog"`, `"name": "Previous"`, 1)
	_, err := s.service.Load(s.ctx, "p1", []byte(previous), FormatJSON)
	s.Require().NoError(err)

	_, err = s.newFailingService().Load(s.ctx, "p1", []byte(validSource), FormatJSON)
	s.Require().Error(err)

	src, err := s.service.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Previous", src.Name)
}

func (s *ServiceSuite) TestSummarize() {
	_, err := s.service.Load(s.ctx, "p1", []byte(validSource), FormatJSON)
	s.Require().NoError(err)

	summary, err := s.service.Summarize(s.ctx, "p1")
	s.Require().NoError(err)

	s.Equal("Backlog", summary.Name)
	s.Equal(9, summary.CategoryCount)
	s.Equal(2, summary.DynamicCount)
	s.Equal([]string{"time", "genre"}, summary.Groups)
	s.Equal(model.GridSmall, summary.MaxGridSize)
	s.True(summary.ShrinkGrid)
}

func (s *ServiceSuite) TestDelete() {
	_, err := s.service.Load(s.ctx, "p1", []byte(validSource), FormatJSON)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, "p1"))

	_, err = s.service.Get(s.ctx, "p1")
	s.ErrorIs(err, model.ErrSourceNotFound)
	s.ErrorIs(s.service.Delete(s.ctx, "p1"), model.ErrSourceNotFound)
}
