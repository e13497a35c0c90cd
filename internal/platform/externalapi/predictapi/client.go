package predictapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	accentity "crypto_dashboard/internal/feature/accuracy/domain/entity"
	accuracy "crypto_dashboard/internal/feature/accuracy/usecase"
	marketentity "crypto_dashboard/internal/feature/market/domain/entity"
	market "crypto_dashboard/internal/feature/market/usecase"
	predentity "crypto_dashboard/internal/feature/prediction/domain/entity"
	prediction "crypto_dashboard/internal/feature/prediction/usecase"
	symbolentity "crypto_dashboard/internal/feature/symbollist/domain/entity"
	symbollist "crypto_dashboard/internal/feature/symbollist/usecase"
	"crypto_dashboard/internal/platform/externalapi/predictapi/dto"
)

// ErrMalformedResponse is returned when a 2xx body lacks a required field or cannot be decoded.
var ErrMalformedResponse = errors.New("predictapi: malformed response")

// Client は予測バックエンドの HTTP API を呼び出すリポジトリ実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

// Clientが各フィーチャーのリポジトリを実装していることをコンパイル時に検証します。
var (
	_ symbollist.SymbolRepository     = (*Client)(nil)
	_ prediction.PredictionRepository = (*Client)(nil)
	_ accuracy.AccuracyRepository     = (*Client)(nil)
	_ market.MarketRepository         = (*Client)(nil)
)

// NewClient は指定された設定とHTTPクライアントでClientを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// ListSymbols は GET /symbols から時間足 interval の取引ペア一覧を取得します。
func (c *Client) ListSymbols(ctx context.Context, interval string) ([]symbolentity.Symbol, error) {
	q := url.Values{}
	q.Set("interval", interval)

	var body []dto.SymbolItem
	if err := c.get(ctx, "/symbols", q, &body); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("%w: symbols is not a list", ErrMalformedResponse)
	}

	out := make([]symbolentity.Symbol, 0, len(body))
	for _, s := range body {
		code := strings.ToUpper(strings.TrimSpace(s.Symbol))
		if code == "" {
			continue
		}
		out = append(out, symbolentity.Symbol{Code: code, Name: s.Name, Image: s.Image})
	}
	return out, nil
}

// Predict は GET /predict から予測を取得します。data が無い応答は ErrMalformedResponse です。
// metrics やローソク足の欠落はここでは検証せず、呼び出し側の表示判定に任せます。
func (c *Client) Predict(ctx context.Context, symbol, interval string, horizon int) (predentity.Prediction, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("horizon", strconv.Itoa(horizon))

	var body dto.PredictResponse
	if err := c.get(ctx, "/predict", q, &body); err != nil {
		return predentity.Prediction{}, err
	}
	if body.Status == "error" {
		return predentity.Prediction{}, fmt.Errorf("predictapi: %s", body.Error)
	}
	if body.Data == nil {
		return predentity.Prediction{}, fmt.Errorf("%w: data missing", ErrMalformedResponse)
	}

	p := toPrediction(*body.Data)
	if p.Symbol == "" {
		p.Symbol = symbol
	}
	if body.Meta != nil && body.Meta.Interval != "" {
		p.Interval = body.Meta.Interval
	}
	return p, nil
}

// Accuracy は GET /accuracy から精度を取得します。accuracy が null の場合は Stats.Accuracy が nil になります。
func (c *Client) Accuracy(ctx context.Context, symbol, interval string) (accentity.Stats, error) {
	q := url.Values{}
	q.Set("interval", interval)
	q.Set("symbol", symbol)

	var body *dto.AccuracyResponse
	if err := c.get(ctx, "/accuracy", q, &body); err != nil {
		return accentity.Stats{}, err
	}
	if body == nil {
		return accentity.Stats{}, fmt.Errorf("%w: empty accuracy body", ErrMalformedResponse)
	}

	s := accentity.Stats{
		Accuracy:    body.Accuracy.Ptr(),
		MAE:         body.MAE.Ptr(),
		GeneratedAt: body.GeneratedAt.Time(),
	}
	if f, ok := body.Total.Float(); ok {
		n := int(f)
		s.Total = &n
	}
	return s, nil
}

// MarketOverview は GET /api/market-overview から市場一覧を取得します。
// items が欠けている、またはリストでない場合は ErrMalformedResponse を返します。
func (c *Client) MarketOverview(ctx context.Context, interval string, limit int) (marketentity.Overview, error) {
	q := url.Values{}
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	var body dto.MarketOverviewResponse
	if err := c.get(ctx, "/api/market-overview", q, &body); err != nil {
		return marketentity.Overview{}, err
	}
	if body.Items == nil {
		return marketentity.Overview{}, fmt.Errorf("%w: items missing", ErrMalformedResponse)
	}

	items := make([]marketentity.Item, 0, len(*body.Items))
	for _, it := range *body.Items {
		items = append(items, toMarketItem(it, interval))
	}
	return marketentity.Overview{Items: items, GeneratedAt: body.Meta.GeneratedAt.Time()}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := fmt.Sprintf("%s%s?%s", strings.TrimRight(c.cfg.BaseURL, "/"), path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("predictapi http %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}
