package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/backlogbingo/internal/testutil"
)

type FetcherSuite struct {
	suite.Suite
	server  *httptest.Server
	fetcher *Fetcher
	ctx     context.Context
}

func TestFetcherSuite(t *testing.T) {
	suite.Run(t, new(FetcherSuite))
}

func (s *FetcherSuite) SetupTest() {
	mux := http.NewServeMux()
	mux.HandleFunc("/list.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version": 1, "name": "Remote", "categories": ` + categoriesJSON(9) + `}`))
	})
	mux.HandleFunc("/list", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		body := "version: 1\nname: Remote YAML\ncategories:\n"
		for i := 1; i <= 9; i++ {
			body += fmt.Sprintf("  - name: Category %d\n", i)
		}
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/broken.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version": `))
	})
	mux.HandleFunc("/big.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 2048))
	})
	mux.HandleFunc("/missing.json", http.NotFound)
	s.server = httptest.NewServer(mux)

	cfg := DefaultFetchConfig()
	cfg.MaxBytes = 1024
	cfg.AllowPrivate = true
	s.fetcher = NewFetcher(cfg, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *FetcherSuite) TearDownTest() {
	s.server.Close()
}

func (s *FetcherSuite) TestFetchJSON() {
	doc, err := s.fetcher.Fetch(s.ctx, s.server.URL+"/list.json")
	s.Require().NoError(err)

	src, err := doc.CardSource()
	s.Require().NoError(err)
	s.Equal("Remote", src.Name)
}

func (s *FetcherSuite) TestFetchYAMLByContentType() {
	doc, err := s.fetcher.Fetch(s.ctx, s.server.URL+"/list")
	s.Require().NoError(err)

	src, err := doc.CardSource()
	s.Require().NoError(err)
	s.Equal("Remote YAML", src.Name)
	s.Len(src.Categories, 9)
}

func (s *FetcherSuite) TestStatusError() {
	_, err := s.fetcher.Fetch(s.ctx, s.server.URL+"/missing.json")

	var status *StatusError
	s.Require().True(errors.As(err, &status))
	s.Equal(http.StatusNotFound, status.StatusCode)
	s.Contains(err.Error(), "404")
}

func (s *FetcherSuite) TestUnreadableBody() {
	_, err := s.fetcher.Fetch(s.ctx, s.server.URL+"/broken.json")
	s.ErrorIs(err, ErrInvalidDocument)
}

func (s *FetcherSuite) TestBodyTooLarge() {
	_, err := s.fetcher.Fetch(s.ctx, s.server.URL+"/big.json")
	s.ErrorIs(err, ErrInvalidDocument)
}

func (s *FetcherSuite) TestTransportFailure() {
	url := s.server.URL + "/list.json"
	s.server.Close()

	_, err := s.fetcher.Fetch(s.ctx, url)
	s.ErrorIs(err, ErrUnexpectedResponse)
}

func (s *FetcherSuite) TestRejectsNonHTTPURLs() {
	_, err := s.fetcher.Fetch(s.ctx, "file:///etc/passwd")
	s.ErrorIs(err, ErrUnexpectedResponse)

	_, err = s.fetcher.Fetch(s.ctx, "not a url")
	s.ErrorIs(err, ErrUnexpectedResponse)
}

func (s *FetcherSuite) TestPrivateAddressesBlockedByDefault() {
	fetcher := NewFetcher(DefaultFetchConfig(), testutil.NopLogger())

	_, err := fetcher.Fetch(s.ctx, s.server.URL+"/list.json")
	s.ErrorIs(err, ErrBlockedAddress)
	s.ErrorIs(err, ErrUnexpectedResponse)
}

func (s *FetcherSuite) TestPublicOnly() {
	tests := []struct {
		address string
		blocked bool
	}{
		{"127.0.0.1:80", true},
		{"[::1]:443", true},
		{"10.1.2.3:80", true},
		{"172.16.0.1:80", true},
		{"192.168.1.10:8080", true},
		{"169.254.169.254:80", true},
		{"[fe80::1]:80", true},
		{"[fd00::1]:80", true},
		{"0.0.0.0:80", true},
		{"[::ffff:127.0.0.1]:80", true},
		{"93.184.216.34:443", false},
		{"[2606:4700::1111]:443", false},
	}

	for _, tt := range tests {
		err := publicOnly("tcp", tt.address, nil)
		if tt.blocked {
			s.ErrorIs(err, ErrBlockedAddress, tt.address)
		} else {
			s.NoError(err, tt.address)
		}
	}
}

func (s *FetcherSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.fetcher.Fetch(ctx, s.server.URL+"/list.json")
	s.ErrorIs(err, ErrUnexpectedResponse)
}
