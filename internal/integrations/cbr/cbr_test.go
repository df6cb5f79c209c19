package cbr

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const keyRateResponse = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body>
    <KeyRateResponse xmlns="http://web.cbr.ru/">
      <KeyRateResult>
        <diffgr:diffgram xmlns:msdata="urn:schemas-microsoft-com:xml-msdata" xmlns:diffgr="urn:schemas-microsoft-com:xml-diffgram-v1">
          <KeyRate xmlns="">
            <KR diffgr:id="KR1" msdata:rowOrder="0">
              <DT>2024-01-10T00:00:00+03:00</DT>
              <Rate>16.00</Rate>
            </KR>
            <KR diffgr:id="KR2" msdata:rowOrder="1">
              <DT>2023-12-15T00:00:00+03:00</DT>
              <Rate>15.00</Rate>
            </KR>
          </KeyRate>
        </diffgr:diffgram>
      </KeyRateResult>
    </KeyRateResponse>
  </soap:Body>
</soap:Envelope>`

func TestParseKeyRates(t *testing.T) {
	rates, err := parseKeyRates([]byte(keyRateResponse))
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.True(t, decimal.NewFromInt(15).Equal(rates[1].Rate))

	best := latest(rates)
	assert.True(t, decimal.NewFromInt(16).Equal(best.Rate))
	assert.Equal(t, "2024-01-10", best.Date.Format("2006-01-02"))
}

func TestParseKeyRatesErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not xml", "<<<"},
		{"no rows", `<Envelope><diffgram><KeyRate></KeyRate></diffgram></Envelope>`},
		{"bad rate", `<Envelope><diffgram><KeyRate><KR><DT>2024-01-10T00:00:00+03:00</DT><Rate>n/a</Rate></KR></KeyRate></diffgram></Envelope>`},
		{"missing date", `<Envelope><diffgram><KeyRate><KR><Rate>16</Rate></KR></KeyRate></diffgram></Envelope>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseKeyRates([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestClientKeyRate(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "http://web.cbr.ru/KeyRate", r.Header.Get("SOAPAction"))
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(keyRateResponse))
	}))
	defer srv.Close()

	log, _ := test.NewNullLogger()
	c := NewClient(srv.URL, log)
	c.now = func() time.Time { return time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC) }

	rate, err := c.KeyRate(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(16).Equal(rate.Rate))
	assert.Contains(t, gotBody, "<fromDate>2024-01-01</fromDate>")
	assert.Contains(t, gotBody, "<ToDate>2024-01-31</ToDate>")
}

func TestClientKeyRateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	log, _ := test.NewNullLogger()
	_, err := NewClient(srv.URL, log).KeyRate(context.Background())
	assert.ErrorContains(t, err, "unexpected status code: 502")
}
