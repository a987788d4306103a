package zerodha

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"short-trading-bot/internal/interfaces"
	"short-trading-bot/internal/logger"
	"short-trading-bot/internal/types"
)

// Params configures the Kite Connect client.
type Params struct {
	Mode        string // DRY_RUN or LIVE
	APIKey      string
	AccessToken string
	Exchange    string
	Interval    string // historical bar interval, "minute" when empty
}

// Client wraps Kite Connect behind the Broker contract: instrument lookup,
// quotes, historical bars and order placement.
type Client struct {
	p      Params
	kc     *kiteconnect.Client
	mapper *instrumentMapper

	loadOnce sync.Once
	loadErr  error
}

var _ interfaces.Broker = (*Client)(nil)

func NewClient(p Params) *Client {
	kc := kiteconnect.New(p.APIKey)
	kc.SetAccessToken(p.AccessToken)
	if p.Exchange == "" {
		p.Exchange = "NSE"
	}
	return &Client{p: p, kc: kc, mapper: newInstrumentMapper()}
}

// NewTickStream returns a websocket tick stream sharing this client's
// instrument mapping.
func (c *Client) NewTickStream() *TickerManager {
	return newTickerManager(c)
}

// loadInstruments fetches the exchange's equity instrument dump once per
// session and fills the symbol↔token mapping.
func (c *Client) loadInstruments(ctx context.Context) error {
	c.loadOnce.Do(func() {
		instruments, err := c.kc.GetInstrumentsByExchange(c.p.Exchange)
		if err != nil {
			c.loadErr = fmt.Errorf("fetch instruments for %s: %w", c.p.Exchange, err)
			return
		}
		for _, inst := range instruments {
			if inst.InstrumentType != "EQ" {
				continue
			}
			c.mapper.add(inst.Tradingsymbol, uint32(inst.InstrumentToken))
		}
		logger.Info(ctx, "Instrument dump loaded", "exchange", c.p.Exchange, "equities", c.mapper.size())
	})
	return c.loadErr
}

func (c *Client) LookupInstrument(ctx context.Context, symbol string) (types.Instrument, error) {
	if err := c.loadInstruments(ctx); err != nil {
		return types.Instrument{}, err
	}
	token, ok := c.mapper.token(symbol)
	if !ok {
		return types.Instrument{}, fmt.Errorf("instrument %s not found on %s", symbol, c.p.Exchange)
	}
	return types.Instrument{
		Symbol:   symbol,
		Token:    token,
		Exchange: c.p.Exchange,
		Segment:  c.p.Exchange,
		Type:     "EQ",
	}, nil
}

func (c *Client) Quote(ctx context.Context, symbol string) (types.Quote, error) {
	id := c.p.Exchange + ":" + symbol
	quotes, err := c.kc.GetQuote(id)
	if err != nil {
		return types.Quote{}, fmt.Errorf("%w: %s: %s", interfaces.ErrQuoteUnavailable, symbol, err)
	}
	q, ok := quotes[id]
	if !ok {
		return types.Quote{}, fmt.Errorf("%w: %s missing from response", interfaces.ErrQuoteUnavailable, symbol)
	}
	return types.Quote{
		Symbol:    symbol,
		LastPrice: q.LastPrice,
		Volume:    int64(q.Volume),
		OHLC: types.OHLC{
			Open:  q.OHLC.Open,
			High:  q.OHLC.High,
			Low:   q.OHLC.Low,
			Close: q.OHLC.Close,
		},
	}, nil
}

func (c *Client) HistoricalBars(ctx context.Context, symbol string, day time.Time) ([]types.Bar, error) {
	inst, err := c.LookupInstrument(ctx, symbol)
	if err != nil {
		return nil, err
	}

	ist := time.FixedZone("IST", 19800)
	d := day.In(ist)
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, ist)
	to := from.Add(24*time.Hour - time.Second)

	data, err := c.kc.GetHistoricalData(int(inst.Token), c.interval(), from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %s on %s: %s", interfaces.ErrDataUnavailable, symbol, from.Format("2006-01-02"), err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s on %s", interfaces.ErrDataUnavailable, symbol, from.Format("2006-01-02"))
	}

	bars := make([]types.Bar, 0, len(data))
	for _, d := range data {
		bars = append(bars, types.Bar{
			Open:   d.Open,
			High:   d.High,
			Low:    d.Low,
			Close:  d.Close,
			Volume: float64(d.Volume),
			Time:   d.Date.Time,
		})
	}
	return bars, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	if req.Side != "BUY" && req.Side != "SELL" {
		return types.OrderResp{}, fmt.Errorf("invalid order side %q", req.Side)
	}

	if c.p.Mode == "DRY_RUN" {
		return types.OrderResp{
			OrderID: fmt.Sprintf("SIM-%d", time.Now().UnixNano()),
			Status:  "SIMULATED",
			Message: "dry-run",
		}, nil
	}

	if c.p.APIKey == "" || c.p.AccessToken == "" {
		return types.OrderResp{}, errors.New("missing API key/access token")
	}

	resp, err := c.kc.PlaceOrder(kiteconnect.VarietyRegular, kiteconnect.OrderParams{
		Exchange:        c.p.Exchange,
		Tradingsymbol:   req.Symbol,
		TransactionType: req.Side,
		Quantity:        req.Qty,
		Product:         productOrDefault(req.Product),
		OrderType:       orderTypeOrDefault(req.OrderType),
		Tag:             req.Tag,
	})
	if err != nil {
		return types.OrderResp{}, fmt.Errorf("%w: %s %s x%d: %s", interfaces.ErrOrderRejected, req.Side, req.Symbol, req.Qty, err)
	}
	return types.OrderResp{OrderID: resp.OrderID, Status: "PLACED", Message: "ok"}, nil
}

func (c *Client) interval() string {
	if c.p.Interval == "" {
		return "minute"
	}
	return c.p.Interval
}

func productOrDefault(p string) string {
	if p == "" {
		return "MIS" // intraday
	}
	return p
}

func orderTypeOrDefault(t string) string {
	if t == "" {
		return "MARKET"
	}
	return t
}
