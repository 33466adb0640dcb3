package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/pkg/errors"
)

// DraftOrderGIDPrefix is the namespace on draft order ids returned by the order system
const DraftOrderGIDPrefix = "gid://shopify/DraftOrder/"

// DraftResponse is the order system's answer to a cart submission
type DraftResponse struct {
	DraftOrderID                 *string `json:"draftOrder_id"`
	DeliveryEstimateBusinessDays int     `json:"delivery_estimate_business_days"`
	ProviderShippingCost         float64 `json:"provider_shipping_cost"`
	DeliveryMethodName           string  `json:"delivery_method_name"`
	DeliveryEstimateDate         string  `json:"delivery_estimate_date"`
	AdminURL                     string  `json:"admin_url,omitempty"`
}

// Client submits order drafts
type Client struct {
	webhookURL string
	adminURL   string
	client     *resty.Client
	logger     *zap.Logger
}

// NewClient creates an order draft client. adminURL is optional; when set, responses
// carry a link to the created draft.
func NewClient(webhookURL, adminURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		webhookURL: webhookURL,
		adminURL:   strings.TrimSuffix(adminURL, "/"),
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0),
		logger: logger,
	}
}

// Submit validates and posts the payload. A rejected payload is an *errors.ErrValidation
// and nothing is sent; any upstream failure or unusable answer is an *errors.ErrTransport.
func (c *Client) Submit(ctx context.Context, payload CartSubmissionPayload) (*DraftResponse, error) {
	const op = "submit order draft"

	if err := ValidatePayload(payload); err != nil {
		return nil, err
	}
	if c.webhookURL == "" {
		return nil, &errors.ErrTransport{Op: op, Err: fmt.Errorf("ORDER_DRAFT_WEBHOOK_URL not set")}
	}

	c.logger.Info("Submitting order draft",
		zap.Int("items", len(payload.Cart.Items)),
		zap.String("total", payload.CartTotalInput),
		zap.String("seller", payload.Cart.SellerName),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(c.webhookURL)
	if err != nil {
		c.logger.Error("Order draft request failed", zap.Error(err))
		return nil, &errors.ErrTransport{Op: op, Err: err}
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		c.logger.Error("Order draft webhook returned non-2xx",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return nil, &errors.ErrTransport{Op: op, StatusCode: resp.StatusCode()}
	}

	draft, err := ParseDraftResponse(resp.Body())
	if err != nil {
		c.logger.Error("Invalid order draft response", zap.Error(err), zap.String("body", resp.String()))
		return nil, &errors.ErrTransport{Op: op, StatusCode: resp.StatusCode(), Err: err}
	}
	if draft.DraftOrderID == nil {
		c.logger.Warn("Order draft response has a null draftOrder_id")
	} else if c.adminURL != "" {
		draft.AdminURL = c.adminURL + "/" + ExtractDraftOrderID(*draft.DraftOrderID)
	}

	c.logger.Info("Order draft created",
		zap.Stringp("draft_order_id", draft.DraftOrderID),
		zap.String("delivery_estimate_date", draft.DeliveryEstimateDate),
		zap.Float64("shipping_cost", draft.ProviderShippingCost),
	)
	return draft, nil
}

// ParseDraftResponse decodes the webhook answer. An array answer uses its first element.
// draftOrder_id must be present (null is allowed), delivery_estimate_date must be a
// parseable date and provider_shipping_cost must be a JSON number.
func ParseDraftResponse(body []byte) (*DraftResponse, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(body, &arr); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if len(arr) == 0 {
			return nil, fmt.Errorf("empty response array")
		}
		body = arr[0]
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	idRaw, ok := raw["draftOrder_id"]
	if !ok {
		return nil, fmt.Errorf("missing draftOrder_id")
	}
	var draftID *string
	if err := json.Unmarshal(idRaw, &draftID); err != nil {
		return nil, fmt.Errorf("draftOrder_id: %w", err)
	}

	var date string
	if err := json.Unmarshal(raw["delivery_estimate_date"], &date); err != nil || strings.TrimSpace(date) == "" {
		return nil, fmt.Errorf("missing delivery_estimate_date")
	}
	if _, err := parseDate(date); err != nil {
		return nil, fmt.Errorf("delivery_estimate_date: %w", err)
	}

	var cost float64
	costRaw := bytes.TrimSpace(raw["provider_shipping_cost"])
	if len(costRaw) == 0 || bytes.Equal(costRaw, []byte("null")) || json.Unmarshal(costRaw, &cost) != nil {
		return nil, fmt.Errorf("provider_shipping_cost must be a number")
	}

	out := &DraftResponse{
		DraftOrderID:                 draftID,
		DeliveryEstimateBusinessDays: lenientInt(raw["delivery_estimate_business_days"]),
		ProviderShippingCost:         cost,
		DeliveryEstimateDate:         date,
	}
	_ = json.Unmarshal(raw["delivery_method_name"], &out.DeliveryMethodName)
	return out, nil
}

// ExtractDraftOrderID strips the draft order namespace from an id
func ExtractDraftOrderID(gid string) string {
	return strings.TrimPrefix(gid, DraftOrderGIDPrefix)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// lenientInt reads a number or numeric string, truncating decimals; anything else is 0
func lenientInt(raw json.RawMessage) int {
	if raw == nil {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil && !math.IsNaN(f) {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int(f)
		}
	}
	return 0
}
