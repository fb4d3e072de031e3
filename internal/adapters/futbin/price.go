package futbin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/futdash/internal/domain/model"
	"github.com/okian/futdash/pkg/logger"
)

var errNoPricePoints = errors.New("price series has no points")

// FetchPrice returns the last point of the configured platform series.
// Any failure yields a zero price.
func (c *Client) FetchPrice(ctx context.Context, resourceID string) model.PriceObservation {
	obs := model.PriceObservation{ResourceID: resourceID}
	if resourceID == "" || resourceID == "0" {
		return obs
	}
	body, err := c.get(ctx, kindPrice, c.urls.PriceGraph(resourceID))
	if err == nil {
		obs, err = parsePrice(body, resourceID, c.platform)
	}
	if err != nil {
		c.log.Debug(ctx, "price unavailable", logger.String("resource_id", resourceID), logger.Error(err))
		return model.PriceObservation{ResourceID: resourceID}
	}
	return obs
}

// parsePrice decodes a {"<platform>": [[ts_ms, price], ...]} payload,
// unwrapping it from an HTML document when needed.
func parsePrice(body []byte, resourceID, platform string) (model.PriceObservation, error) {
	obs := model.PriceObservation{ResourceID: resourceID}
	var series map[string]json.RawMessage
	if err := json.Unmarshal(body, &series); err != nil {
		doc, derr := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if derr != nil {
			return obs, fmt.Errorf("price payload: %w", err)
		}
		if err := json.Unmarshal([]byte(doc.Text()), &series); err != nil {
			return obs, fmt.Errorf("price payload: %w", err)
		}
	}
	raw, ok := series[platform]
	if !ok {
		return obs, fmt.Errorf("%w: platform %s", errNoPricePoints, platform)
	}
	var points [][]float64
	if err := json.Unmarshal(raw, &points); err != nil {
		return obs, fmt.Errorf("price series %s: %w", platform, err)
	}
	if len(points) == 0 {
		return obs, fmt.Errorf("%w: platform %s", errNoPricePoints, platform)
	}
	last := points[len(points)-1]
	if len(last) < 2 {
		return obs, fmt.Errorf("%w: short point", errNoPricePoints)
	}
	obs.Timestamp = time.UnixMilli(int64(last[0])).UTC()
	obs.Price = int(last[1])
	return obs, nil
}
