package perk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrSeedUnavailable = errors.New("perk seed unavailable")

const seedFetchTimeout = 3 * time.Second

// SeedSource supplies the startup records for Service.Seed.
type SeedSource interface {
	Fetch(ctx context.Context) ([]Perk, error)
	String() string
}

// NewSeedSource treats http(s) locations as URLs and anything else as a file path.
func NewSeedSource(location string) SeedSource {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSeed{
			URL:    location,
			Client: &http.Client{Timeout: seedFetchTimeout},
		}
	}
	return FileSeed{Path: strings.TrimPrefix(location, "file://")}
}

type FileSeed struct {
	Path string
}

func (f FileSeed) String() string { return f.Path }

func (f FileSeed) Fetch(ctx context.Context) ([]Perk, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return decodeSeed(fh)
}

type HTTPSeed struct {
	URL    string
	Client *http.Client
}

func (h *HTTPSeed) String() string { return h.URL }

func (h *HTTPSeed) Fetch(ctx context.Context) ([]Perk, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("seed fetch: status=%d", resp.StatusCode)
	}
	return decodeSeed(resp.Body)
}

type seedRecord struct {
	ID               *int64          `json:"id"`
	Name             string          `json:"name"`
	StandalonePrice  decimal.Decimal `json:"standalonePrice"`
	VerizonPerkPrice decimal.Decimal `json:"verizonPerkPrice"`
}

func decodeSeed(r io.Reader) ([]Perk, error) {
	var recs []seedRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	out := make([]Perk, 0, len(recs))
	for _, rec := range recs {
		p := Perk{
			Name:             rec.Name,
			StandalonePrice:  rec.StandalonePrice,
			VerizonPerkPrice: rec.VerizonPerkPrice,
		}
		if rec.ID != nil {
			p.ID = *rec.ID
		}
		out = append(out, p)
	}
	return out, nil
}
