// Package render turns a briefing into the HTML fragment served by /news.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"math/rand/v2"
	"strings"

	"coinwire/internal/domain"
	"coinwire/internal/narrative"
)

const defaultSiteURL = "https://coinmarketcap.com"

// AgeSource draws the cosmetic "published N hours M minutes ago" values.
type AgeSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Direction of the 24h move as shown in the market summary.
type Direction struct {
	Class string
	Arrow string
}

var (
	directionUp   = Direction{Class: "up", Arrow: "▲"}
	directionDown = Direction{Class: "down", Arrow: "▼"}
)

// DirectionOf returns "up" styling for a non-negative change and "down" otherwise.
func DirectionOf(percentChange24h float64) Direction {
	if percentChange24h >= 0 {
		return directionUp
	}
	return directionDown
}

// Summary is the market-summary panel in display units.
type Summary struct {
	Price     string
	Change    string
	MarketCap string
	Volume    string
	Updated   string
	Direction Direction
}

// Summarize formats q for the market-summary panel. The 24h change is shown
// as a magnitude; its sign is carried by Direction.
func Summarize(q domain.QuoteRecord) Summary {
	return Summary{
		Price:     fmt.Sprintf("%.2f", q.Price),
		Change:    fmt.Sprintf("%.2f", math.Abs(q.PercentChange24h)),
		MarketCap: fmt.Sprintf("%.2f", narrative.Billions(q.MarketCap)),
		Volume:    fmt.Sprintf("%.2f", narrative.Millions(q.Volume24h)),
		Updated:   q.LastUpdated,
		Direction: DirectionOf(q.PercentChange24h),
	}
}

type article struct {
	URL     string
	Title   string
	Source  string
	Hours   int
	Minutes int
	Body    string
}

type fragmentData struct {
	Symbol   string
	Articles []article
	Summary  Summary
}

var fragmentTemplate = template.Must(template.New("news").Parse(`<h2>Latest News for {{.Symbol}}</h2>
{{range .Articles}}<div class="news-article">
  <h3><a href="{{.URL}}" target="_blank" rel="noopener">{{.Title}}</a></h3>
  <p class="news-meta"><b>Source:</b> {{.Source}} | <b>Published:</b> {{.Hours}} hours {{.Minutes}} minutes ago</p>
  <p class="news-body">{{.Body}}</p>
</div>
{{end}}<div class="market-summary">
  <h3>Market Summary</h3>
  <p>Price: <span class="price {{.Summary.Direction.Class}}">${{.Summary.Price}} {{.Summary.Direction.Arrow}} {{.Summary.Change}}%</span></p>
  <p>Market Cap: ${{.Summary.MarketCap}} billion</p>
  <p>24h Volume: ${{.Summary.Volume}} million</p>
  <p class="last-updated">Last updated: {{.Summary.Updated}}</p>
</div>
`))

// Renderer builds HTML fragments. It is safe for concurrent use as long as
// its AgeSource is.
type Renderer struct {
	siteURL string
	ages    AgeSource
}

// New creates a Renderer linking articles under siteURL. A nil ages uses the
// process-wide random source.
func New(siteURL string, ages AgeSource) *Renderer {
	if siteURL == "" {
		siteURL = defaultSiteURL
	}
	if ages == nil {
		ages = globalRand{}
	}
	return &Renderer{siteURL: strings.TrimRight(siteURL, "/"), ages: ages}
}

// CurrencyURL is the provider page for a coin slug.
func (r *Renderer) CurrencyURL(slug string) string {
	return r.siteURL + "/currencies/" + slug + "/"
}

// Render produces the news fragment for symbol.
func (r *Renderer) Render(symbol string, q domain.QuoteRecord, items [domain.NarrativeSlots]domain.NarrativeItem) (string, error) {
	data := fragmentData{
		Symbol:   symbol,
		Articles: make([]article, 0, len(items)),
		Summary:  Summarize(q),
	}
	for _, item := range items {
		data.Articles = append(data.Articles, article{
			URL:     r.CurrencyURL(q.Slug),
			Title:   item.Title,
			Source:  item.Source,
			Hours:   r.ages.IntN(24),
			Minutes: r.ages.IntN(60),
			Body:    item.Body,
		})
	}

	var buf bytes.Buffer
	if err := fragmentTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render news fragment for %s: %w", symbol, err)
	}
	return buf.String(), nil
}

// RenderBriefing is Render for a prepared briefing.
func (r *Renderer) RenderBriefing(b *domain.Briefing) (string, error) {
	return r.Render(b.Symbol, b.Quote, b.Items)
}
