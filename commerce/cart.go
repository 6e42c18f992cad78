package commerce

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tidwall/sjson"

	"github.com/linanwx/shopchat/logger"
	"github.com/linanwx/shopchat/transcript"
)

const cartTimeout = 15 * time.Second

// CartClient posts add-to-cart actions to the storefront. Errors are
// logged but never observed by the widget core.
type CartClient struct {
	endpoint   string
	seller     string // fallback when the offer carries none
	httpClient *http.Client
	emitter    *Emitter
}

// NewCartClient creates a cart client. emitter may be nil to skip
// analytics.
func NewCartClient(endpoint, seller string, emitter *Emitter) *CartClient {
	return &CartClient{
		endpoint:   endpoint,
		seller:     seller,
		httpClient: &http.Client{Timeout: cartTimeout},
		emitter:    emitter,
	}
}

// Add puts one unit of the product in the cart and emits the
// add_to_cart analytics event.
func (c *CartClient) Add(ctx context.Context, p transcript.Product, index int) {
	if c.emitter != nil {
		c.emitter.AddToCart(p, index)
	}

	if c.endpoint == "" {
		logger.Debug("cart endpoint not configured, add skipped", "productID", p.ID)
		return
	}

	seller := p.Offer.Seller
	if seller == "" {
		seller = c.seller
	}

	go func() {
		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cartTimeout)
		defer cancel()
		if err := c.post(reqCtx, p.ID, seller); err != nil {
			logger.Error("add to cart failed", "productID", p.ID, "err", err)
			return
		}
		logger.Info("added to cart", "productID", p.ID, "seller", seller)
	}()
}

func (c *CartClient) post(ctx context.Context, productID, seller string) error {
	payload := []byte(`{}`)
	var err error
	for key, value := range map[string]any{
		"productID": productID,
		"seller":    seller,
		"quantity":  1,
	} {
		if payload, err = sjson.SetBytes(payload, key, value); err != nil {
			return fmt.Errorf("build payload: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
