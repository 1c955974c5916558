package brreg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClient_ValidateOrgNumber(t *testing.T) {
	c := NewClient()

	assert.True(t, c.ValidateOrgNumber("923609016"))
	assert.True(t, c.ValidateOrgNumber("  923609016  "))
	assert.False(t, c.ValidateOrgNumber("92360901"))
	assert.False(t, c.ValidateOrgNumber("9236090161"))
	assert.False(t, c.ValidateOrgNumber("92360901a"))
	assert.False(t, c.ValidateOrgNumber(""))
}

func TestClient_GetCompanyInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enheter/923609016", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"organisasjonsnummer": "923609016",
			"navn": "EQUINOR ASA",
			"organisasjonsform": {"kode": "ASA", "beskrivelse": "Allmennaksjeselskap"},
			"forretningsadresse": {"adresse": ["Forusbeen 50"], "postnummer": "4035", "poststed": "STAVANGER"},
			"naeringskode1": {"kode": "06.100", "beskrivelse": "Utvinning av råolje"},
			"antallAnsatte": 21126,
			"registreringsdatoEnhetsregisteret": "1995-02-20"
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	info, err := c.GetCompanyInfo(context.Background(), "923609016")
	assert.NoError(t, err)
	assert.Equal(t, "EQUINOR ASA", info.Name)
	assert.Equal(t, "ASA", info.OrgForm)
	assert.Equal(t, "Forusbeen 50", info.Address)
	assert.Equal(t, "STAVANGER", info.City)
	assert.Equal(t, 21126, info.EmployeeCount)
}

func TestClient_GetCompanyInfo_InvalidNumberSkipsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := c.GetCompanyInfo(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, ErrInvalidOrgNumber)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestClient_GetCompanyInfo_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := c.GetCompanyInfo(context.Background(), "999999999")
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestClient_GetCompanyInfo_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := c.GetCompanyInfo(context.Background(), "923609016")
	assert.ErrorIs(t, err, ErrRegistryUnavailable)
}

func TestClient_SearchCompanies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enheter", r.URL.Path)
		assert.Equal(t, "driftpro", r.URL.Query().Get("navn"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"_embedded": {
				"enheter": [
					{"organisasjonsnummer": "911111111", "navn": "DRIFTPRO AS"},
					{"organisasjonsnummer": "922222222", "navn": "DRIFTPRO HOLDING AS"}
				]
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	results, err := c.SearchCompanies(context.Background(), "driftpro")
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "DRIFTPRO AS", results[0].Name)
}

func TestClient_SearchCompanies_RequiresTerm(t *testing.T) {
	c := NewClient()

	_, err := c.SearchCompanies(context.Background(), "   ")
	assert.Error(t, err)
}
