package ingest

import (
	"strings"
)

// Canonical column names. Input headers are mapped onto these before rows
// are decoded.
const (
	ColExecutionTime  = "execution_time"
	ColContract       = "contract_name"
	ColQuantity       = "quantity"
	ColOpenPrice      = "open_price"
	ColClosePrice     = "close_price"
	ColNetPnL         = "net_pnl"
	ColPositionSide   = "position_side"
	ColExecutionPrice = "execution_price"
	ColFee            = "fee"
	ColTax            = "tax"
)

// DefaultTradeAliases are the header names of the broker's summary log of
// closed positions.
var DefaultTradeAliases = map[string][]string{
	ColExecutionTime: {"成交時間", "close_time"},
	ColContract:      {"商品名稱", "contract", "instrument"},
	ColQuantity:      {"口數", "lots"},
	ColOpenPrice:     {"新倉價"},
	ColClosePrice:    {"平倉價"},
	ColNetPnL:        {"平倉損益淨額", "net_pl", "realized_pl"},
}

// DefaultFillAliases are the header names of the broker's detailed fill log.
var DefaultFillAliases = map[string][]string{
	ColExecutionTime:  {"成交時間"},
	ColContract:       {"商品名稱", "contract", "instrument"},
	ColPositionSide:   {"倉別", "side"},
	ColExecutionPrice: {"成交價", "price"},
	ColQuantity:       {"成交口數"},
	ColFee:            {"手續費"},
	ColTax:            {"交易稅"},
}

var (
	tradeRequired = []string{ColExecutionTime, ColContract, ColOpenPrice, ColClosePrice}
	fillRequired  = []string{ColExecutionTime, ColContract, ColPositionSide, ColExecutionPrice}
)

// headerMap resolves header cells to canonical names.
type headerMap map[string]string

func newHeaderMap(sets ...map[string][]string) headerMap {
	m := headerMap{}
	for _, set := range sets {
		for canonical, aliases := range set {
			m[headerKey(canonical)] = canonical
			for _, a := range aliases {
				m[headerKey(a)] = canonical
			}
		}
	}
	return m
}

func headerKey(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.TrimSpace(s))
}

// canonical rewrites a header row. Unknown columns keep their trimmed name.
func (m headerMap) canonical(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if c, ok := m[headerKey(h)]; ok {
			out[i] = c
			continue
		}
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}

func missing(header, required []string) []string {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var out []string
	for _, r := range required {
		if !have[r] {
			out = append(out, r)
		}
	}
	return out
}
