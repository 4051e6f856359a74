package bybit

// Bybit v5 response envelopes. Numeric fields arrive as strings and are
// parsed explicitly; anything that doesn't parse is dropped, never
// propagated as an error.

type tickersResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Category string        `json:"category"`
		List     []tickerEntry `json:"list"`
	} `json:"result"`
}

type tickerEntry struct {
	Symbol      string `json:"symbol"`
	LastPrice   string `json:"lastPrice"`
	Turnover24h string `json:"turnover24h"`
	FundingRate string `json:"fundingRate"`
}

// Kline rows are 7-tuples of strings:
// [startTime, open, high, low, close, volume, turnover].
type klineResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Category string     `json:"category"`
		Symbol   string     `json:"symbol"`
		List     [][]string `json:"list"`
	} `json:"result"`
}
