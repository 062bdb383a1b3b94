package pokedex

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"pokedex-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

// UrlPrefix is the only place pokedex pages live, anything else is
// rejected before a request goes out.
const UrlPrefix = "https://www.pokemon.com/us/pokedex/"

var ErrInvalidUrl = fmt.Errorf("pokedex pages all live under %s", UrlPrefix)

type Client struct {
	Http *resty.Client
}

func NewClient() *Client {
	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/pokedex/http")

	return &Client{Http: client}
}

// Scrape fetches and extracts a single pokedex page.
func (c *Client) Scrape(ctx context.Context, pageUrl string) (Result, error) {
	ctx, span := tracer.Start(ctx, "client:Scrape")
	defer span.End()

	if !strings.HasPrefix(pageUrl, UrlPrefix) {
		span.SetStatus(codes.Error, "invalid url")
		return Result{}, fmt.Errorf("%w, got %q", ErrInvalidUrl, pageUrl)
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return Result{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return Result{}, err
	}

	return Extract(ctx, pageUrl, doc)
}
