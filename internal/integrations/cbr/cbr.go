package cbr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// lookback is how far back the key rate history is requested
const lookback = 30 * 24 * time.Hour

// KeyRate is the central bank key rate in percent effective from Date
type KeyRate struct {
	Date time.Time       `json:"date"`
	Rate decimal.Decimal `json:"rate"`
}

// Client reads the key rate from the Central Bank of Russia SOAP service
type Client struct {
	url    string
	client *http.Client
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewClient initializes a new CBR client for the DailyInfo endpoint at url
func NewClient(url string, log logrus.FieldLogger) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
		now: time.Now,
	}
}

// buildSOAPRequest creates a KeyRate request covering the lookback window
func (c *Client) buildSOAPRequest() string {
	to := c.now()
	from := to.Add(-lookback)
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
	<soap12:Body>
		<KeyRate xmlns="http://web.cbr.ru/">
			<fromDate>%s</fromDate>
			<ToDate>%s</ToDate>
		</KeyRate>
	</soap12:Body>
</soap12:Envelope>`, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func (c *Client) send(ctx context.Context, soapRequest string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(soapRequest))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/KeyRate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debugf("CBR XML response: %s", body)
	return body, nil
}

// parseKeyRates extracts every KR row of a KeyRate response
func parseKeyRates(raw []byte) ([]KeyRate, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	rows := doc.FindElements("//diffgram/KeyRate/KR")
	if len(rows) == 0 {
		return nil, fmt.Errorf("no key rate data found in XML")
	}

	rates := make([]KeyRate, 0, len(rows))
	for _, row := range rows {
		dt, rate := row.FindElement("./DT"), row.FindElement("./Rate")
		if dt == nil || rate == nil {
			return nil, fmt.Errorf("key rate row without DT or Rate")
		}
		date, err := time.Parse(time.RFC3339, strings.TrimSpace(dt.Text()))
		if err != nil {
			return nil, fmt.Errorf("failed to parse date %q: %w", dt.Text(), err)
		}
		value, err := decimal.NewFromString(strings.TrimSpace(rate.Text()))
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate %q: %w", rate.Text(), err)
		}
		rates = append(rates, KeyRate{Date: date, Rate: value})
	}
	return rates, nil
}

// latest returns the row with the most recent date
func latest(rates []KeyRate) KeyRate {
	best := rates[0]
	for _, r := range rates[1:] {
		if r.Date.After(best.Date) {
			best = r
		}
	}
	return best
}

// KeyRate retrieves the current key rate
func (c *Client) KeyRate(ctx context.Context) (KeyRate, error) {
	body, err := c.send(ctx, c.buildSOAPRequest())
	if err != nil {
		return KeyRate{}, err
	}
	rates, err := parseKeyRates(body)
	if err != nil {
		return KeyRate{}, err
	}

	rate := latest(rates)
	c.log.WithFields(logrus.Fields{
		"rate": rate.Rate.String(),
		"date": rate.Date.Format("2006-01-02"),
	}).Info("Retrieved key rate")
	return rate, nil
}
