package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/fetchlab/fetchlab/internal/catapi"
)

// Plain is the simplest variant: one GET against the image search endpoint
// through the shared API client, no configuration beyond defaults.
type Plain struct {
	Searcher catapi.ImageSearcher
}

// NewPlain wraps the given API client.
func NewPlain(searcher catapi.ImageSearcher) *Plain {
	return &Plain{Searcher: searcher}
}

// Name implements Strategy.
func (p *Plain) Name() string { return "plain GET" }

// Fetch implements Strategy.
func (p *Plain) Fetch(ctx context.Context) (*Result, error) {
	start := time.Now()
	images, err := p.Searcher.SearchImages(ctx, catapi.SearchQuery{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(images) == 0 || images[0].URL == "" {
		return nil, &catapi.Failure{
			Kind: catapi.KindParsing,
			Err:  fmt.Errorf("response list carried no image url"),
		}
	}
	return &Result{
		ImageURL:   images[0].URL,
		HTTPStatus: 200,
		Elapsed:    time.Since(start),
	}, nil
}
