package zerodha

import "sync"

// instrumentMapper keeps the bidirectional symbol↔token mapping shared by
// the REST client and the websocket ticker.
type instrumentMapper struct {
	mu            sync.RWMutex
	symbolToToken map[string]uint32
	tokenToSymbol map[uint32]string
}

func newInstrumentMapper() *instrumentMapper {
	return &instrumentMapper{
		symbolToToken: make(map[string]uint32),
		tokenToSymbol: make(map[uint32]string),
	}
}

func (im *instrumentMapper) add(symbol string, token uint32) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.symbolToToken[symbol] = token
	im.tokenToSymbol[token] = symbol
}

func (im *instrumentMapper) token(symbol string) (uint32, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	t, ok := im.symbolToToken[symbol]
	return t, ok
}

func (im *instrumentMapper) symbol(token uint32) string {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.tokenToSymbol[token]
}

func (im *instrumentMapper) size() int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return len(im.symbolToToken)
}
