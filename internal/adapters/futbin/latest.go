package futbin

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/futdash/pkg/logger"
	"github.com/okian/futdash/pkg/metrics"
)

// LatestPlayerID returns the newest published player id from the latest page.
func (c *Client) LatestPlayerID(ctx context.Context) (int, error) {
	body, err := c.get(ctx, kindLatest, c.urls.Latest())
	if err != nil {
		return 0, fmt.Errorf("latest page: %w", err)
	}
	id, err := parseLatest(body)
	if err != nil {
		return 0, err
	}
	metrics.UpdateLatestPlayerID(id)
	c.log.Info(ctx, "latest player id discovered", logger.Int("player_id", id))
	return id, nil
}

// parseLatest reads segment 3 of the first link in the first table: /20/player/<id>/<slug>.
func parseLatest(body []byte) (int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLatestNotFound, err)
	}
	href, ok := doc.Find("table").First().Find("a").First().Attr("href")
	if !ok {
		return 0, ErrLatestNotFound
	}
	parts := strings.Split(href, "/")
	if len(parts) < 4 {
		return 0, fmt.Errorf("%w: href %q", ErrLatestNotFound, href)
	}
	id, err := strconv.Atoi(parts[3])
	if err != nil {
		return 0, fmt.Errorf("%w: href %q", ErrLatestNotFound, href)
	}
	return id, nil
}
